package store

import (
	"context"
	"sync"

	"aseara/internal/cart/models"
)

// InMemory keeps carts in a map guarded by one RWMutex. No expiry; for
// tests and development only.
type InMemory struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

// NewInMemory builds an empty in-memory cart store.
func NewInMemory() *InMemory {
	return &InMemory{carts: make(map[string]*models.Cart)}
}

func (s *InMemory) Get(_ context.Context, sessionID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return models.NewCart(sessionID), nil
	}
	clone := models.Cart{SessionID: cart.SessionID, Items: make(map[string]models.CartItem, len(cart.Items))}
	for key, item := range cart.Items {
		clone.Items[key] = item
	}
	return &clone, nil
}

func (s *InMemory) Save(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := models.Cart{SessionID: cart.SessionID, Items: make(map[string]models.CartItem, len(cart.Items))}
	for key, item := range cart.Items {
		clone.Items[key] = item
	}
	s.carts[cart.SessionID] = &clone
	return nil
}

func (s *InMemory) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
