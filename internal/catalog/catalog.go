// Package catalog serves product reads to shoppers.
package catalog

import (
	"context"
	"strings"

	"greengrocer-backend/internal/domain"
)

// AllCategories disables the category filter.
const AllCategories = "All"

type Reader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	products Reader
}

func NewService(products Reader) *Service {
	return &Service{products: products}
}

// List returns the catalog, optionally narrowed to one category. Category
// matching ignores case, so "fruit" finds products tagged "Fruit".
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategories) {
		return products, nil
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListProducts lets the catalog service stand in wherever a plain product
// listing is needed, such as order placement.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}
