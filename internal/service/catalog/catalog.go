package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/domain/models"
	"github.com/the3rafas/cr7system/internal/repository"
)

// Service describes the catalog operations the HTTP layer can perform.
type Service interface {
	List(ctx context.Context) ([]models.Product, error)
	Add(ctx context.Context, name string, price float64) (models.Product, error)
	Delete(ctx context.Context, id int) ([]models.Product, error)
}

// CatalogService is the production implementation backed by the injected store.
type CatalogService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewService wires a new catalog service instance.
func NewService(store repository.Store, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: store, logger: logger}
}

// List returns all products in insertion order.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Add validates and appends a new product. The id is the highest existing id
// plus one, so ids of deleted products can be reissued but never collide with
// a live one.
func (s *CatalogService) Add(ctx context.Context, name string, price float64) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: product name must not be empty", models.ErrInvalidArgument)
	}
	if price < 0 {
		return models.Product{}, fmt.Errorf("%w: price must not be negative", models.ErrInvalidArgument)
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("load products: %w", err)
	}

	maxID := 0
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	product := models.Product{ID: maxID + 1, Name: name, Price: price}
	products = append(products, product)

	if err := s.store.SaveProducts(ctx, products); err != nil {
		return models.Product{}, fmt.Errorf("save products: %w", err)
	}

	s.logger.Info("product added", zap.Int("id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// Delete removes the product with the given id and returns the remaining
// list. Historical bills keep their snapshots, so deleting a product never
// touches billed entries.
func (s *CatalogService) Delete(ctx context.Context, id int) ([]models.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	remaining := make([]models.Product, 0, len(products))
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, p)
	}
	if !found {
		return nil, fmt.Errorf("%w: no product with id=%d", models.ErrNotFound, id)
	}

	if err := s.store.SaveProducts(ctx, remaining); err != nil {
		return nil, fmt.Errorf("save products: %w", err)
	}

	s.logger.Info("product deleted", zap.Int("id", id))
	return remaining, nil
}
