package repository

import (
	"context"

	"github.com/Meet5113/greencart-backend/internal/domain/cart"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	findCartByUserSQL = `SELECT id, total_amount, updated_at FROM carts WHERE user_id = $1`

	findCartItemsSQL = `
SELECT product_id, quantity FROM cart_items
WHERE cart_id = $1
ORDER BY position`

	upsertCartSQL = `
INSERT INTO carts (id, user_id, total_amount, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET total_amount = EXCLUDED.total_amount, updated_at = EXCLUDED.updated_at
RETURNING id`

	deleteCartItemsSQL = `DELETE FROM cart_items WHERE cart_id = $1`

	insertCartItemsSQL = `
INSERT INTO cart_items (cart_id, position, product_id, quantity)
SELECT $1, t.position, t.product_id, t.quantity
FROM unnest($2::int[], $3::uuid[], $4::int[]) AS t(position, product_id, quantity)`
)

type CartRepository struct {
	db db.DBTX
}

func NewCartRepository(db db.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var (
		id        uuid.UUID
		total     pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)
	if err := r.db.QueryRow(ctx, findCartByUserSQL, userID).Scan(&id, &total, &updatedAt); err != nil {
		return nil, infra.WrapRepoErr("failed to find cart", err)
	}
	amount, err := pgconv.DecimalFromNumeric(total)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert cart total", err)
	}

	rows, err := r.db.Query(ctx, findCartItemsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find cart items", err)
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		var (
			productID uuid.UUID
			quantity  int32
		)
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item", err)
		}
		items = append(items, cart.Item{ProductID: productID, Quantity: int(quantity)})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart items", err)
	}

	return cart.ReconstructCart(id, userID, items, amount, pgconv.TimeFromPgtype(updatedAt)), nil
}

// Save replaces the stored cart with c. It issues several statements and
// belongs inside a unit of work.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, upsertCartSQL,
		c.ID(), c.UserID(), pgconv.DecimalToNumeric(c.Total()), pgconv.TimeToPgtype(c.UpdatedAt()),
	).Scan(&id)
	if err != nil {
		return infra.WrapRepoErr("failed to save cart", err)
	}

	if _, err := r.db.Exec(ctx, deleteCartItemsSQL, id); err != nil {
		return infra.WrapRepoErr("failed to clear cart items", err)
	}

	items := c.Items()
	if len(items) == 0 {
		return nil
	}
	positions := make([]int32, len(items))
	productIDs := make([]uuid.UUID, len(items))
	quantities := make([]int32, len(items))
	for i, item := range items {
		positions[i] = int32(i) // #nosec G115 -- bounded by the number of cart lines
		productIDs[i] = item.ProductID
		quantities[i] = int32(item.Quantity) // #nosec G115 -- cart quantities fit int4
	}
	if _, err := r.db.Exec(ctx, insertCartItemsSQL, id, positions, productIDs, quantities); err != nil {
		return infra.WrapRepoErr("failed to save cart items", err)
	}
	return nil
}
