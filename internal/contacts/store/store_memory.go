package store

import (
	"context"
	"sync"

	"calldex/internal/contacts/models"
	registrystore "calldex/internal/registry/store"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

type pairKey struct {
	owner  id.UserID
	number id.PhoneNumberID
}

// Memory is the in-process Store used by unit tests and local development.
// It resolves numbers through the registry store so listing reflects the
// registry's current state, the same join the postgres store performs.
type Memory struct {
	mu       sync.RWMutex
	registry registrystore.Store
	byPair   map[pairKey]*models.Contact
	byOwner  map[id.UserID][]*models.Contact
}

func NewMemory(registry registrystore.Store) *Memory {
	return &Memory{
		registry: registry,
		byPair:   make(map[pairKey]*models.Contact),
		byOwner:  make(map[id.UserID][]*models.Contact),
	}
}

func (s *Memory) Create(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{owner: contact.UserID, number: contact.PhoneNumberID}
	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrConflict
	}
	c := *contact
	s.byPair[key] = &c
	s.byOwner[contact.UserID] = append(s.byOwner[contact.UserID], &c)
	return nil
}

func (s *Memory) ListByOwner(ctx context.Context, ownerID id.UserID) ([]models.ContactEntry, error) {
	s.mu.RLock()
	owned := make([]*models.Contact, len(s.byOwner[ownerID]))
	copy(owned, s.byOwner[ownerID])
	s.mu.RUnlock()

	entries := make([]models.ContactEntry, 0, len(owned))
	for _, contact := range owned {
		phone, err := s.registry.FindByID(ctx, contact.PhoneNumberID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.ContactEntry{
			Name:   contact.Name,
			Number: phone.Number,
		})
	}
	return entries, nil
}
