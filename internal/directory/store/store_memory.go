package store

import (
	"context"
	"sync"

	"calldex/internal/directory/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

// Memory is the in-process Store used by unit tests and local development.
type Memory struct {
	mu        sync.RWMutex
	byID      map[id.UserID]*models.User
	byEmail   map[string]*models.User
	byPhone   map[string]*models.User
	otps      map[id.UserID][]*models.OTP
	countries []models.Country
	cities    []models.City
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[id.UserID]*models.User),
		byEmail: make(map[string]*models.User),
		byPhone: make(map[string]*models.User),
		otps:    make(map[id.UserID][]*models.OTP),
	}
}

func (s *Memory) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byPhone[user.PhoneNumber]; exists {
		return sentinel.ErrConflict
	}
	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = &u
	s.byPhone[u.PhoneNumber] = &u
	return nil
}

func (s *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *Memory) FindUserByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *Memory) MarkVerified(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.IsVerified = true
	return nil
}

func (s *Memory) CountVerified(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, user := range s.byID {
		if user.IsVerified && user.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *Memory) CreateOTP(_ context.Context, otp *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := *otp
	s.otps[o.UserID] = append(s.otps[o.UserID], &o)
	return nil
}

func (s *Memory) LatestOTP(_ context.Context, userID id.UserID) (*models.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issued := s.otps[userID]
	if len(issued) == 0 {
		return nil, sentinel.ErrNotFound
	}
	latest := issued[0]
	for _, otp := range issued[1:] {
		if otp.CreatedAt.After(latest.CreatedAt) {
			latest = otp
		}
	}
	o := *latest
	return &o, nil
}

// SeedCountry and SeedCity load reference data for tests.
func (s *Memory) SeedCountry(country models.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries = append(s.countries, country)
}

func (s *Memory) SeedCity(city models.City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cities = append(s.cities, city)
}

func (s *Memory) ListCountries(_ context.Context) ([]models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Country, len(s.countries))
	copy(out, s.countries)
	return out, nil
}

func (s *Memory) ListCities(_ context.Context, countryID id.CountryID) ([]models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.City, 0)
	for _, city := range s.cities {
		if city.CountryID == countryID {
			out = append(out, city)
		}
	}
	return out, nil
}

func copyUser(user *models.User) *models.User {
	u := *user
	return &u
}
