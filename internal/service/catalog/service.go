package catalog

import (
	"context"
	"strings"

	"folik-store/internal/domain"
	productrepo "folik-store/internal/repository/product"
)

const featuredLimit = 6

// Service serves the storefront's read-only product views. When mediaHost is
// set, relative image paths are absolutized against it.
type Service struct {
	repo      productrepo.Repository
	mediaHost string
}

func New(repo productrepo.Repository, mediaHost string) *Service {
	return &Service{repo: repo, mediaHost: strings.TrimRight(mediaHost, "/")}
}

// Featured returns up to six available products for the index page, featured
// ones first.
func (s *Service) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	for i := range products {
		s.absolutize(&products[i])
	}
	return products, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		s.absolutize(&products[i])
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.absolutize(product)
	return product, nil
}

func (s *Service) absolutize(p *domain.Product) {
	p.ImageURL = s.mediaURL(p.ImageURL)
	for i := range p.Gallery {
		p.Gallery[i] = s.mediaURL(p.Gallery[i])
	}
}

func (s *Service) mediaURL(path string) string {
	if s.mediaHost == "" || path == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.mediaHost + "/" + strings.TrimLeft(path, "/")
}
