package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"calldex/internal/search/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

type alias struct {
	owner     id.UserID
	name      string
	number    string
	spamCount int
}

// Memory is the in-process Store used by unit tests and local development.
// Tests seed it directly instead of routing writes through the contact book.
type Memory struct {
	mu      sync.RWMutex
	aliases []alias
	emails  map[string]string
}

func NewMemory() *Memory {
	return &Memory{emails: make(map[string]string)}
}

// SeedAlias records one alias row owned by ownerID.
func (s *Memory) SeedAlias(ownerID id.UserID, name, number string, spamCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases = append(s.aliases, alias{owner: ownerID, name: name, number: number, spamCount: spamCount})
}

// SeedEmail registers a verified account email behind number.
func (s *Memory) SeedEmail(number, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[number] = email
}

func (s *Memory) MatchNamePrefix(_ context.Context, query string) ([]models.Row, error) {
	return s.match(func(a alias) bool {
		return strings.HasPrefix(a.name, query)
	}), nil
}

func (s *Memory) MatchNameContains(_ context.Context, query string) ([]models.Row, error) {
	return s.match(func(a alias) bool {
		return strings.Contains(a.name, query) && !strings.HasPrefix(a.name, query)
	}), nil
}

func (s *Memory) MatchNumber(_ context.Context, query string) ([]models.Row, error) {
	return s.match(func(a alias) bool {
		return a.number == query
	}), nil
}

func (s *Memory) EmailFor(_ context.Context, ownerID id.UserID, number string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.aliases {
		if a.owner == ownerID && a.number == number {
			if email, ok := s.emails[number]; ok {
				return email, nil
			}
			break
		}
	}
	return "", sentinel.ErrNotFound
}

func (s *Memory) match(keep func(alias) bool) []models.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Row
	for _, a := range s.aliases {
		if keep(a) {
			out = append(out, models.Row{Name: a.name, Number: a.number, SpamCount: a.spamCount})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Number < out[j].Number
	})
	return out
}
