package store

import (
	"context"
	"sync"

	"aseara/internal/review/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
)

// InMemory keeps admins in maps guarded by one RWMutex.
type InMemory struct {
	mu     sync.RWMutex
	admins map[id.AdminID]*models.Admin
	byUser map[id.UserID]id.AdminID
}

// NewInMemory builds an empty in-memory admin store.
func NewInMemory() *InMemory {
	return &InMemory{
		admins: make(map[id.AdminID]*models.Admin),
		byUser: make(map[id.UserID]id.AdminID),
	}
}

func (s *InMemory) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.admins[admin.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byUser[admin.UserID]; exists {
		return sentinel.ErrConflict
	}
	clone := *admin
	s.admins[admin.ID] = &clone
	s.byUser[admin.UserID] = admin.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, adminID id.AdminID) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if admin, ok := s.admins[adminID]; ok {
		clone := *admin
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByUserID(_ context.Context, userID id.UserID) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adminID, ok := s.byUser[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *s.admins[adminID]
	return &clone, nil
}
