package product

import (
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativePrice = errs.New("price must not be negative")
	ErrNegativeStock = errs.New("stock must not be negative")
	ErrEmptyName     = errs.New("product name is required")
)

// Product is the fulfillment engine's view of a catalog entry. A nil stock
// means the product is not tracked and can never be reserved.
type Product struct {
	id     uuid.UUID
	name   string
	price  decimal.Decimal
	stock  *int
	active bool
}

func NewProduct(id uuid.UUID, name string, price decimal.Decimal, stock *int, active bool) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock != nil && *stock < 0 {
		return nil, ErrNegativeStock
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Product{
		id:     id,
		name:   name,
		price:  price,
		stock:  copyStock(stock),
		active: active,
	}, nil
}

// ReconstructProduct rebuilds a product from persisted state without validation.
func ReconstructProduct(id uuid.UUID, name string, price decimal.Decimal, stock *int, active bool) *Product {
	return &Product{id: id, name: name, price: price, stock: copyStock(stock), active: active}
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) Active() bool           { return p.active }

func (p *Product) Stock() (int, bool) {
	if p.stock == nil {
		return 0, false
	}
	return *p.stock, true
}

// CheckAvailable is a pre-flight estimate only. It does not reserve anything
// and a concurrent reservation can still win the remaining stock.
func (p *Product) CheckAvailable(quantity int) error {
	if !p.active {
		return errs.Mark(errs.Newf("product %s is not active", p.name), errs.ErrProductInactive)
	}
	stock, ok := p.Stock()
	if !ok {
		return errs.Mark(errs.Newf("product %s has no stock configured", p.name), errs.ErrStockNotConfigured)
	}
	if stock < quantity {
		return errs.Mark(errs.Newf("insufficient stock for %s", p.name), errs.ErrInsufficientStock)
	}
	return nil
}

func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.price.Mul(decimal.NewFromInt(int64(quantity)))
}

func copyStock(stock *int) *int {
	if stock == nil {
		return nil
	}
	v := *stock
	return &v
}
