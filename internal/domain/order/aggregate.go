package order

import (
	"math"
	"strings"

	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawLineItem is an unvalidated (product, quantity) pair as received from a
// request body or read from a cart. Quantity keeps its textual form so that
// "2", 2 and 2.0 are all accepted as two.
type RawLineItem struct {
	ProductID string
	Quantity  string
}

type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
}

type ProductQuantity struct {
	ProductID uuid.UUID
	Quantity  int
}

// Aggregation is the validated form of a batch of raw line items.
type Aggregation struct {
	// Per-product totals in order of first appearance.
	Quantities []ProductQuantity
	// Normalized items in request order, duplicates preserved.
	Items []LineItem
}

// Aggregate validates every pair and merges duplicate products. A single bad
// pair rejects the whole batch.
func Aggregate(raw []RawLineItem) (Aggregation, error) {
	if len(raw) == 0 {
		return Aggregation{}, errs.Mark(errs.New("at least one line item is required"), errs.ErrInvalidLineItem)
	}

	items := make([]LineItem, 0, len(raw))
	index := make(map[uuid.UUID]int, len(raw))
	quantities := make([]ProductQuantity, 0, len(raw))

	for i, r := range raw {
		productID, err := ParseProductID(r.ProductID)
		if err != nil {
			return Aggregation{}, errs.Wrapf(err, "line item %d", i)
		}
		qty, err := ParseQuantity(r.Quantity)
		if err != nil {
			return Aggregation{}, errs.Wrapf(err, "line item %d", i)
		}

		items = append(items, LineItem{ProductID: productID, Quantity: qty})

		if pos, ok := index[productID]; ok {
			sum := quantities[pos].Quantity + qty
			if sum > math.MaxInt32 {
				return Aggregation{}, errs.Mark(errs.Newf("line item %d: quantity overflow", i), errs.ErrInvalidLineItem)
			}
			quantities[pos].Quantity = sum
			continue
		}
		index[productID] = len(quantities)
		quantities = append(quantities, ProductQuantity{ProductID: productID, Quantity: qty})
	}

	return Aggregation{Quantities: quantities, Items: items}, nil
}

func (a Aggregation) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.Quantities))
	for i, q := range a.Quantities {
		ids[i] = q.ProductID
	}
	return ids
}

// Total prices the normalized items. Every item's product must be in prices.
func (a Aggregation) Total(prices map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range a.Items {
		total = total.Add(prices[item.ProductID].Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func ParseProductID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errs.Mark(errs.Newf("invalid product id %q", s), errs.ErrInvalidLineItem)
	}
	return id, nil
}

// ParseQuantity accepts any numeric text whose value is a whole number in
// [1, MaxInt32].
func ParseQuantity(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errs.Mark(errs.Newf("invalid quantity %q", s), errs.ErrInvalidLineItem)
	}
	if !d.IsInteger() || d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, errs.Mark(errs.Newf("quantity must be a positive integer, got %q", s), errs.ErrInvalidLineItem)
	}
	return int(d.IntPart()), nil
}
