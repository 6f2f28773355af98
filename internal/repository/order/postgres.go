package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

type cartLine struct {
	ID        string
	ProductID string
	Quantity  int
}

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CreateFromCartInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Snapshot and clear the cart in one statement. A concurrent checkout
	// for the same session gets zero rows back and rolls back empty-handed.
	rows, err := tx.Query(ctx, `
DELETE FROM cart_items
WHERE session_key = $1
RETURNING id::text, product_id::text, quantity
`, in.SessionKey)
	if err != nil {
		return nil, err
	}

	var lines []cartLine
	for rows.Next() {
		var line cartLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var order domain.Order
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (full_name, phone)
VALUES ($1, $2)
RETURNING id::text, full_name, phone, is_processed, created_at
`, in.FullName, in.Phone).Scan(
		&order.ID,
		&order.FullName,
		&order.Phone,
		&order.IsProcessed,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}

	for _, line := range lines {
		quantity := line.Quantity
		if override, ok := in.Overrides[line.ID]; ok {
			quantity = override
		}

		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, quantity)
VALUES ($1, $2, $3)
`, order.ID, line.ProductID, quantity); err != nil {
			return nil, err
		}
	}

	// Reload the items with their product rows before committing, so the
	// returned order can be priced without a second round trip.
	order.Items, err = r.itemsByOrder(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s lines=%d session=%s", order.ID, len(order.Items), in.SessionKey)
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, full_name, phone, is_processed, created_at
FROM orders
WHERE id = $1
`
	var order domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&order.ID,
		&order.FullName,
		&order.Phone,
		&order.IsProcessed,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsByOrder(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT id::text, full_name, phone, is_processed, created_at
FROM orders
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.FullName, &order.Phone, &order.IsProcessed, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsByOrder(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *postgresRepo) SetProcessed(ctx context.Context, id string, processed bool) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET is_processed = $1
WHERE id = $2
`, processed, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: id=%s processed=%t", id, processed)
	return nil
}

// querier is satisfied by both the pool and an open transaction, so item
// loading can run inside the checkout commit as well as on plain reads.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// itemsByOrder loads order items with their current product row. The product
// join is a left join: deleted products leave a null reference behind.
func (r *postgresRepo) itemsByOrder(ctx context.Context, q querier, orderID string) ([]domain.OrderItem, error) {
	const query = `
SELECT oi.id::text, oi.order_id::text, oi.product_id::text, oi.quantity,
       p.id::text, p.title, p.price::text, p.discount_price::text, COALESCE(p.image_url, '')
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.id ASC
`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var (
			pID       *string
			pTitle    *string
			pPrice    *string
			pDiscount *string
			pImageURL *string
		)
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&pID,
			&pTitle,
			&pPrice,
			&pDiscount,
			&pImageURL,
		); err != nil {
			return nil, err
		}
		if pID != nil {
			p := domain.Product{ID: *pID}
			if pTitle != nil {
				p.Title = *pTitle
			}
			if pImageURL != nil {
				p.ImageURL = *pImageURL
			}
			if pPrice != nil {
				parsed, err := decimal.NewFromString(*pPrice)
				if err != nil {
					return nil, fmt.Errorf("parse price %q: %w", *pPrice, err)
				}
				p.Price = parsed
			}
			if pDiscount != nil {
				parsed, err := decimal.NewFromString(*pDiscount)
				if err != nil {
					return nil, fmt.Errorf("parse discount price %q: %w", *pDiscount, err)
				}
				p.DiscountPrice = decimal.NewNullDecimal(parsed)
			}
			item.Product = &p
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
