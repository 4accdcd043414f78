//go:build unit || e2e || integration

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// CreateTestProduct inserts a product. A nil stock leaves stock untracked.
func CreateTestProduct(t *testing.T, db DBLike, name, price string, stock *int, active bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO products (id, name, price, stock, is_active) VALUES ($1, $2, $3, $4, $5)",
		id, name, pgconv.DecimalToNumeric(decimal.RequireFromString(price)), stock, active)
	require.NoError(t, err)
	return id
}

func ProductStock(t *testing.T, db DBLike, productID uuid.UUID) *int {
	t.Helper()

	var stock *int
	err := db.QueryRow(context.Background(), "SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	require.NoError(t, err)
	return stock
}

// CreateTestCart inserts a cart holding items in map iteration order.
func CreateTestCart(t *testing.T, db DBLike, userID uuid.UUID, total string, items map[uuid.UUID]int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	cartID := uuid.New()
	_, err := db.Exec(ctx,
		"INSERT INTO carts (id, user_id, total_amount, updated_at) VALUES ($1, $2, $3, now())",
		cartID, userID, pgconv.DecimalToNumeric(decimal.RequireFromString(total)))
	require.NoError(t, err)

	position := 0
	for productID, qty := range items {
		_, err := db.Exec(ctx,
			"INSERT INTO cart_items (cart_id, position, product_id, quantity) VALUES ($1, $2, $3, $4)",
			cartID, position, productID, qty)
		require.NoError(t, err)
		position++
	}
	return cartID
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
