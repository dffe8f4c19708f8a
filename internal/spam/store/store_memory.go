package store

import (
	"context"
	"sync"

	"calldex/internal/spam/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

type pairKey struct {
	user   id.UserID
	number id.PhoneNumberID
}

// Memory is the in-process Store used by unit tests and local development.
type Memory struct {
	mu      sync.Mutex
	reports map[pairKey]*models.Report
}

func NewMemory() *Memory {
	return &Memory{reports: make(map[pairKey]*models.Report)}
}

func (s *Memory) Create(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{user: report.UserID, number: report.PhoneNumberID}
	if _, exists := s.reports[key]; exists {
		return sentinel.ErrConflict
	}
	r := *report
	s.reports[key] = &r
	return nil
}

func (s *Memory) HasReported(_ context.Context, userID id.UserID, phoneNumberID id.PhoneNumberID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.reports[pairKey{user: userID, number: phoneNumberID}]
	return exists, nil
}
