package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"aseara/internal/catalog/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
)

// InMemory keeps products in a map guarded by one RWMutex.
type InMemory struct {
	mu       sync.RWMutex
	products map[id.ProductID]*models.Product
}

// NewInMemory builds an empty in-memory product store.
func NewInMemory() *InMemory {
	return &InMemory{products: make(map[id.ProductID]*models.Product)}
}

func (s *InMemory) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[product.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, productID id.ProductID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if product, ok := s.products[productID]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Update(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[product.ID]; !exists {
		return sentinel.ErrNotFound
	}
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *InMemory) List(_ context.Context, query ListQuery) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(query.Search))
	var matched []*models.Product
	for _, product := range s.products {
		if query.PublishedOnly && !product.Published {
			continue
		}
		if !query.SupplierID.IsNil() && product.SupplierID != query.SupplierID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
			continue
		}
		clone := *product
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		a, b := uuid.UUID(matched[i].ID), uuid.UUID(matched[j].ID)
		return bytes.Compare(a[:], b[:]) > 0
	})
	return matched, nil
}

func (s *InMemory) UnpublishBySupplier(_ context.Context, supplierID id.SupplierID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, product := range s.products {
		if product.SupplierID == supplierID && product.Published {
			product.Published = false
			count++
		}
	}
	return count, nil
}
