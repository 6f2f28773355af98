package product

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

const productColumns = `id::text, title, COALESCE(description, ''), price::text, discount_price::text, COALESCE(image_url, ''), is_available, is_featured, stock, created_at`

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

func (r *postgresRepo) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE is_available
ORDER BY created_at DESC
`
	return r.list(ctx, q)
}

func (r *postgresRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE is_available
ORDER BY is_featured DESC, created_at DESC
LIMIT $1
`
	return r.list(ctx, q, limit)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}

	const galleryQuery = `
SELECT image_url
FROM product_images
WHERE product_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, galleryQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		p.Gallery = append(p.Gallery, url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, title, description, price, discount_price, image_url, is_available, is_featured, stock)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, NULLIF($3, ''), $4::numeric, $5::numeric, NULLIF($6, ''), $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    discount_price = EXCLUDED.discount_price,
    image_url = EXCLUDED.image_url,
    is_available = EXCLUDED.is_available,
    is_featured = EXCLUDED.is_featured,
    stock = EXCLUDED.stock
RETURNING id::text, created_at
`
	var discount *string
	if p.DiscountPrice.Valid {
		v := p.DiscountPrice.Decimal.StringFixed(2)
		discount = &v
	}

	res := p
	err := r.pool.QueryRow(ctx, q,
		p.ID,
		p.Title,
		p.Description,
		p.Price.StringFixed(2),
		discount,
		p.ImageURL,
		p.IsAvailable,
		p.IsFeatured,
		p.Stock,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert title=%q error=%v", p.Title, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s title=%q", res.ID, res.Title)
	return &res, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) ReplaceGallery(ctx context.Context, productID string, urls []string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for i, url := range urls {
		if _, err := tx.Exec(ctx, `
INSERT INTO product_images (product_id, image_url, position)
VALUES ($1, $2, $3)
`, productID, url, i); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var price string
	var discount *string
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&price,
		&discount,
		&p.ImageURL,
		&p.IsAvailable,
		&p.IsFeatured,
		&p.Stock,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = parsed

	if discount != nil {
		d, err := decimal.NewFromString(*discount)
		if err != nil {
			return nil, fmt.Errorf("parse discount price %q: %w", *discount, err)
		}
		p.DiscountPrice = decimal.NewNullDecimal(d)
	}

	return &p, nil
}
