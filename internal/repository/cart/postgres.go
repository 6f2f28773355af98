package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Add(ctx context.Context, sessionKey, productID string) (*domain.CartItem, error) {
	// The unique (session_key, product_id) constraint serializes concurrent
	// adds: two racing requests end up with one row of quantity 2.
	const q = `
INSERT INTO cart_items (session_key, product_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (session_key, product_id)
DO UPDATE SET quantity = cart_items.quantity + 1
RETURNING id::text, session_key, product_id::text, quantity, created_at
`
	var item domain.CartItem
	if err := r.pool.QueryRow(ctx, q, sessionKey, productID).Scan(
		&item.ID,
		&item.SessionKey,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) ListBySession(ctx context.Context, sessionKey string) ([]domain.CartItem, error) {
	const q = `
SELECT ci.id::text, ci.session_key, ci.product_id::text, ci.quantity, ci.created_at,
       p.id::text, p.title, COALESCE(p.description, ''), p.price::text, p.discount_price::text,
       COALESCE(p.image_url, ''), p.is_available, p.is_featured, p.stock, p.created_at
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
WHERE ci.session_key = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) AdjustQuantity(ctx context.Context, sessionKey, itemID string, delta int) error {
	const q = `
UPDATE cart_items
SET quantity = GREATEST(quantity + $1, 1)
WHERE id = $2 AND session_key = $3
`
	cmd, err := r.pool.Exec(ctx, q, delta, itemID, sessionKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, sessionKey, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND session_key = $2
`, itemID, sessionKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	var (
		pID          *string
		pTitle       *string
		pDescription *string
		pPrice       *string
		pDiscount    *string
		pImageURL    *string
		pAvailable   *bool
		pFeatured    *bool
		pStock       *int
		pCreatedAt   *time.Time
	)
	if err := row.Scan(
		&item.ID,
		&item.SessionKey,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&pID,
		&pTitle,
		&pDescription,
		&pPrice,
		&pDiscount,
		&pImageURL,
		&pAvailable,
		&pFeatured,
		&pStock,
		&pCreatedAt,
	); err != nil {
		return nil, err
	}

	if pID != nil {
		p := domain.Product{
			ID:          *pID,
			Title:       deref(pTitle),
			Description: deref(pDescription),
			ImageURL:    deref(pImageURL),
		}
		if pAvailable != nil {
			p.IsAvailable = *pAvailable
		}
		if pFeatured != nil {
			p.IsFeatured = *pFeatured
		}
		if pStock != nil {
			p.Stock = *pStock
		}
		if pCreatedAt != nil {
			p.CreatedAt = *pCreatedAt
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

	return &item, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
