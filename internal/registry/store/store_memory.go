package store

import (
	"context"
	"sync"

	"calldex/internal/registry/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

// Memory is the in-process Store used by unit tests and local development.
// The mutex stands in for the database's unique constraint.
type Memory struct {
	mu       sync.RWMutex
	byNumber map[string]*models.PhoneNumber
	byID     map[id.PhoneNumberID]*models.PhoneNumber
}

func NewMemory() *Memory {
	return &Memory{
		byNumber: make(map[string]*models.PhoneNumber),
		byID:     make(map[id.PhoneNumberID]*models.PhoneNumber),
	}
}

func (s *Memory) ResolveOrCreate(_ context.Context, number string) (*models.PhoneNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.byNumber[number]; ok {
		return copyOf(entry), nil
	}
	entry := &models.PhoneNumber{
		ID:     id.NewPhoneNumberID(),
		Number: number,
	}
	s.byNumber[number] = entry
	s.byID[entry.ID] = entry
	return copyOf(entry), nil
}

func (s *Memory) FindByNumber(_ context.Context, number string) (*models.PhoneNumber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byNumber[number]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyOf(entry), nil
}

func (s *Memory) FindByID(_ context.Context, phoneNumberID id.PhoneNumberID) (*models.PhoneNumber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byID[phoneNumberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyOf(entry), nil
}

func (s *Memory) MarkRegistered(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.byNumber[number]; ok {
		entry.IsRegistered = true
		return nil
	}
	entry := &models.PhoneNumber{
		ID:           id.NewPhoneNumberID(),
		Number:       number,
		IsRegistered: true,
	}
	s.byNumber[number] = entry
	s.byID[entry.ID] = entry
	return nil
}

func (s *Memory) IncrementSpamCount(_ context.Context, phoneNumberID id.PhoneNumberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byID[phoneNumberID]
	if !ok {
		return sentinel.ErrNotFound
	}
	entry.SpamCount++
	return nil
}

func copyOf(entry *models.PhoneNumber) *models.PhoneNumber {
	c := *entry
	return &c
}
