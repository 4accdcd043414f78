package repository

import (
	"context"

	"github.com/Meet5113/greencart-backend/internal/domain/product"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/infra/repository/converter"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	productColumns = `id, name, price, stock, is_active`

	findProductByIDSQL   = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	findProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	createProductSQL = `
INSERT INTO products (id, name, price, stock, is_active)
VALUES ($1, $2, $3, $4, $5)`

	// The predicate and the decrement are one statement, so two concurrent
	// reservations can never both see the same stock.
	reserveStockSQL = `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND is_active AND stock IS NOT NULL AND stock >= $2`

	releaseStockSQL = `
UPDATE products
SET stock = stock + $2, updated_at = now()
WHERE id = $1 AND stock IS NOT NULL`
)

// ProductRepository reads products and is the stock ledger. Stock changes
// are never made inside a unit of work.
type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(db db.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var row converter.ProductRow
	err := r.db.QueryRow(ctx, findProductByIDSQL, id).
		Scan(&row.ID, &row.Name, &row.Price, &row.Stock, &row.IsActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	p, err := converter.ProductFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert product", err)
	}
	return p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx, findProductsByIDsSQL, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find products", err)
	}
	defer rows.Close()

	products := make([]*product.Product, 0, len(ids))
	for rows.Next() {
		var row converter.ProductRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Price, &row.Stock, &row.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		p, err := converter.ProductFromRow(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return products, nil
}

// Create exists for seeding; product management lives in the catalog service.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	stock, tracked := p.Stock()
	var stockPtr *int
	if tracked {
		stockPtr = &stock
	}
	_, err := r.db.Exec(ctx, createProductSQL,
		p.ID(), p.Name(), pgconv.DecimalToNumeric(p.Price()), pgconv.IntPtrToPgtype(stockPtr), p.Active(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create product", err)
	}
	return nil
}

func (r *ProductRepository) TryReserve(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	tag, err := r.db.Exec(ctx, reserveStockSQL, productID, quantity)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProductRepository) Release(ctx context.Context, productID uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(ctx, releaseStockSQL, productID, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to release stock", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.NewNotFound("product to release stock into not found")
	}
	return nil
}
