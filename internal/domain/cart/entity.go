package cart

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errs.New("cart quantity must be at least 1")
	ErrItemNotFound    = errs.New("item not found in cart")
	ErrUnknownPrice    = errs.New("no price for cart item")
)

type Item struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart totals are derived from current prices on every mutation, unlike
// orders which keep a snapshot.
type Cart struct {
	id        uuid.UUID
	userID    uuid.UUID
	items     []Item
	total     decimal.Decimal
	updatedAt time.Time
}

func NewCart(userID uuid.UUID, now time.Time) *Cart {
	return &Cart{
		id:        uuid.New(),
		userID:    userID,
		total:     decimal.Zero,
		updatedAt: now,
	}
}

func ReconstructCart(id, userID uuid.UUID, items []Item, total decimal.Decimal, updatedAt time.Time) *Cart {
	return &Cart{
		id:        id,
		userID:    userID,
		items:     append([]Item(nil), items...),
		total:     total,
		updatedAt: updatedAt,
	}
}

func (c *Cart) ID() uuid.UUID          { return c.id }
func (c *Cart) UserID() uuid.UUID      { return c.userID }
func (c *Cart) Total() decimal.Decimal { return c.total }
func (c *Cart) UpdatedAt() time.Time   { return c.updatedAt }
func (c *Cart) Items() []Item          { return append([]Item(nil), c.items...) }
func (c *Cart) IsEmpty() bool          { return len(c.items) == 0 }

// AddItem merges into an existing line for the same product.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, prices map[uuid.UUID]decimal.Decimal, now time.Time) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	items := c.Items()
	if i := c.indexOf(productID); i >= 0 {
		items[i].Quantity += quantity
	} else {
		items = append(items, Item{ProductID: productID, Quantity: quantity})
	}
	return c.apply(items, prices, now)
}

func (c *Cart) SetItemQuantity(productID uuid.UUID, quantity int, prices map[uuid.UUID]decimal.Decimal, now time.Time) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	items := c.Items()
	items[i].Quantity = quantity
	return c.apply(items, prices, now)
}

func (c *Cart) RemoveItem(productID uuid.UUID, prices map[uuid.UUID]decimal.Decimal, now time.Time) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	items := c.Items()
	items = append(items[:i], items[i+1:]...)
	return c.apply(items, prices, now)
}

// Clear empties the cart. Checkout calls it only after the order is reserved.
func (c *Cart) Clear(now time.Time) {
	c.items = nil
	c.total = decimal.Zero
	c.updatedAt = now
}

// Recalculate re-prices the current items.
func (c *Cart) Recalculate(prices map[uuid.UUID]decimal.Decimal, now time.Time) error {
	return c.apply(c.Items(), prices, now)
}

// apply commits items only if every one of them can be priced.
func (c *Cart) apply(items []Item, prices map[uuid.UUID]decimal.Decimal, now time.Time) error {
	total := decimal.Zero
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			return errs.Mark(errs.Newf("no price for product %s", item.ProductID), ErrUnknownPrice)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.items = items
	c.total = total
	c.updatedAt = now
	return nil
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
