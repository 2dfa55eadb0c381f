package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"aseara/internal/supplier/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
)

type docSlot struct {
	supplierID id.SupplierID
	kind       models.DocumentKind
}

// InMemory keeps suppliers and document rows in maps guarded by one
// RWMutex. It favors clarity over performance and backs unit tests and
// zero-dependency development runs.
type InMemory struct {
	mu        sync.RWMutex
	suppliers map[id.SupplierID]*models.Supplier
	byUser    map[id.UserID]id.SupplierID
	documents map[docSlot]*models.SupplierDocument
	emails    UserEmails
}

// NewInMemory builds an empty in-memory store. emails may be nil, in which
// case queue search matches only business name and registration number.
func NewInMemory(emails UserEmails) *InMemory {
	return &InMemory{
		suppliers: make(map[id.SupplierID]*models.Supplier),
		byUser:    make(map[id.UserID]id.SupplierID),
		documents: make(map[docSlot]*models.SupplierDocument),
		emails:    emails,
	}
}

func (s *InMemory) Create(_ context.Context, supplier *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.suppliers[supplier.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byUser[supplier.UserID]; exists {
		return sentinel.ErrConflict
	}
	if err := s.checkRegistrationNumberLocked(supplier); err != nil {
		return err
	}
	clone := *supplier
	s.suppliers[supplier.ID] = &clone
	s.byUser[supplier.UserID] = supplier.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, supplierID id.SupplierID) (*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if supplier, ok := s.suppliers[supplierID]; ok {
		clone := *supplier
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByUserID(_ context.Context, userID id.UserID) (*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	supplierID, ok := s.byUser[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *s.suppliers[supplierID]
	return &clone, nil
}

func (s *InMemory) Update(_ context.Context, supplier *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[supplier.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkRegistrationNumberLocked(supplier); err != nil {
		return err
	}
	clone := *supplier
	s.suppliers[supplier.ID] = &clone
	return nil
}

// checkRegistrationNumberLocked enforces global registration-number
// uniqueness, ignoring the supplier's own row and empty (pre-submission)
// values.
func (s *InMemory) checkRegistrationNumberLocked(supplier *models.Supplier) error {
	if supplier.RegistrationNumber == "" {
		return nil
	}
	for _, other := range s.suppliers {
		if other.ID != supplier.ID && other.RegistrationNumber == supplier.RegistrationNumber {
			return sentinel.ErrConflict
		}
	}
	return nil
}

func (s *InMemory) UpsertDocument(_ context.Context, doc *models.SupplierDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := docSlot{supplierID: doc.SupplierID, kind: doc.Kind}
	previousKey := ""
	if existing, ok := s.documents[slot]; ok {
		previousKey = existing.Key
		doc.ID = existing.ID
	}
	clone := *doc
	s.documents[slot] = &clone
	return previousKey, nil
}

func (s *InMemory) FindDocument(_ context.Context, supplierID id.SupplierID, kind models.DocumentKind) (*models.SupplierDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.documents[docSlot{supplierID: supplierID, kind: kind}]; ok {
		clone := *doc
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListDocuments(_ context.Context, supplierID id.SupplierID) ([]*models.SupplierDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*models.SupplierDocument
	for _, kind := range models.DocumentKinds() {
		if doc, ok := s.documents[docSlot{supplierID: supplierID, kind: kind}]; ok {
			clone := *doc
			docs = append(docs, &clone)
		}
	}
	return docs, nil
}

func (s *InMemory) ListQueue(ctx context.Context, query QueueQuery) ([]*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(query.Search))
	var matched []*models.Supplier
	for _, supplier := range s.suppliers {
		if !statusMatches(supplier.Status, query.Statuses) {
			continue
		}
		if query.CountryCode != "" && supplier.CountryCode != query.CountryCode {
			continue
		}
		if search != "" && !s.searchMatchesLocked(ctx, supplier, search) {
			continue
		}
		clone := *supplier
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return queueLess(matched[i], matched[j])
	})
	return matched, nil
}

func statusMatches(status models.SupplierStatus, statuses []models.SupplierStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *InMemory) searchMatchesLocked(ctx context.Context, supplier *models.Supplier, search string) bool {
	if strings.Contains(strings.ToLower(supplier.BusinessName), search) {
		return true
	}
	if strings.Contains(strings.ToLower(supplier.RegistrationNumber), search) {
		return true
	}
	if s.emails != nil {
		if email, err := s.emails.FindEmail(ctx, supplier.UserID); err == nil {
			if strings.Contains(strings.ToLower(email), search) {
				return true
			}
		}
	}
	return false
}

// queueLess orders most-recently-submitted first, never-submitted last,
// with supplier ID descending as a stable tie-break.
func queueLess(a, b *models.Supplier) bool {
	switch {
	case a.SubmittedAt == nil && b.SubmittedAt == nil:
		// fall through to ID tie-break
	case a.SubmittedAt == nil:
		return false
	case b.SubmittedAt == nil:
		return true
	case !a.SubmittedAt.Equal(*b.SubmittedAt):
		return a.SubmittedAt.After(*b.SubmittedAt)
	}
	aID, bID := uuid.UUID(a.ID), uuid.UUID(b.ID)
	return bytes.Compare(aID[:], bID[:]) > 0
}
