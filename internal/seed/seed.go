package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	ID            string
	Title         string
	Description   string
	Price         string
	DiscountPrice *string
	ImageURL      string
	IsFeatured    bool
	Stock         int
}

func strPtr(v string) *string {
	return &v
}

// Apply inserts basic seed data for manual testing. Fixed IDs keep it
// idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			ID:          "b4b2a4f2-7b0a-4d3c-9a63-0aa4c3f1d101",
			Title:       "Linen Shirt",
			Description: "Relaxed-fit linen shirt",
			Price:       "49.90",
			ImageURL:    "products/main/linen-shirt.jpg",
			IsFeatured:  true,
			Stock:       25,
		},
		{
			ID:            "b4b2a4f2-7b0a-4d3c-9a63-0aa4c3f1d102",
			Title:         "Ceramic Mug",
			Description:   "Stoneware mug, 350ml",
			Price:         "12.50",
			DiscountPrice: strPtr("9.99"),
			ImageURL:      "products/main/ceramic-mug.jpg",
			Stock:         120,
		},
		{
			ID:          "b4b2a4f2-7b0a-4d3c-9a63-0aa4c3f1d103",
			Title:       "Canvas Tote",
			Description: "Heavy cotton tote bag",
			Price:       "19.00",
			ImageURL:    "products/main/canvas-tote.jpg",
			Stock:       60,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Title, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, title, description, price, discount_price, image_url, is_featured, stock)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    discount_price = EXCLUDED.discount_price,
    image_url = EXCLUDED.image_url,
    is_featured = EXCLUDED.is_featured,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.ID, p.Title, p.Description, p.Price, p.DiscountPrice, p.ImageURL, p.IsFeatured, p.Stock)
	return err
}
