package product

import (
	"context"

	"folik-store/internal/domain"
)

type Repository interface {
	ListAvailable(ctx context.Context) ([]domain.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	ReplaceGallery(ctx context.Context, productID string, urls []string) error
}
