package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"calldex/internal/directory/models"
	dirstore "calldex/internal/directory/store"
	registryservice "calldex/internal/registry/service"
	registrystore "calldex/internal/registry/store"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/requestcontext"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(_ id.UserID, email string, _ time.Duration) (string, error) {
	return "token-for-" + email, nil
}

type DirectoryServiceSuite struct {
	suite.Suite
	store    *dirstore.Memory
	registry *registrystore.Memory
	mailer   *recordingMailer
	service  *Service
}

func TestDirectoryServiceSuite(t *testing.T) {
	suite.Run(t, new(DirectoryServiceSuite))
}

func (s *DirectoryServiceSuite) SetupTest() {
	s.store = dirstore.NewMemory()
	s.registry = registrystore.NewMemory()
	s.mailer = &recordingMailer{}

	reg, err := registryservice.New(s.registry)
	s.Require().NoError(err)

	s.service, err = New(s.store, reg, fakeTokens{}, s.mailer, 5*time.Minute, time.Hour)
	s.Require().NoError(err)
}

func (s *DirectoryServiceSuite) register(ctx context.Context, email, phone string) *models.User {
	user, err := s.service.Register(ctx, RegisterInput{
		Name:        "Test User",
		Email:       email,
		Password:    "correct horse",
		PhoneNumber: phone,
	})
	s.Require().NoError(err)
	return user
}

func (s *DirectoryServiceSuite) latestCode(ctx context.Context, userID id.UserID) string {
	otp, err := s.store.LatestOTP(ctx, userID)
	s.Require().NoError(err)
	return otp.Code
}

func (s *DirectoryServiceSuite) TestRegister() {
	ctx := context.Background()

	s.Run("creates an unverified account and claims the number", func() {
		user := s.register(ctx, "alice@example.com", "9991112233")
		s.False(user.IsVerified)
		s.True(user.IsActive)

		entry, err := s.registry.FindByNumber(ctx, "9991112233")
		s.Require().NoError(err)
		s.True(entry.IsRegistered)

		s.Len(s.mailer.sent, 1)
		s.Len(s.latestCode(ctx, user.ID), 6)
	})

	s.Run("duplicate email is rejected", func() {
		s.register(ctx, "bob@example.com", "9991112234")

		_, err := s.service.Register(ctx, RegisterInput{
			Name:        "Other Bob",
			Email:       "bob@example.com",
			Password:    "correct horse",
			PhoneNumber: "9991112235",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("duplicate phone number is rejected", func() {
		s.register(ctx, "carol@example.com", "9991112236")

		_, err := s.service.Register(ctx, RegisterInput{
			Name:        "Carol Again",
			Email:       "carol2@example.com",
			Password:    "correct horse",
			PhoneNumber: "9991112236",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("short password is rejected", func() {
		_, err := s.service.Register(ctx, RegisterInput{
			Name:        "Dave",
			Email:       "dave@example.com",
			Password:    "short",
			PhoneNumber: "9991112237",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *DirectoryServiceSuite) TestVerifyOTP() {
	ctx := context.Background()

	s.Run("the issued code verifies the account", func() {
		user := s.register(ctx, "alice@example.com", "9991112233")

		err := s.service.VerifyOTP(ctx, "alice@example.com", s.latestCode(ctx, user.ID))
		s.Require().NoError(err)

		stored, err := s.store.FindUserByID(ctx, user.ID)
		s.Require().NoError(err)
		s.True(stored.IsVerified)
	})

	s.Run("a wrong code is rejected", func() {
		s.register(ctx, "bob@example.com", "9991112234")

		err := s.service.VerifyOTP(ctx, "bob@example.com", "000000")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("an expired code is rejected", func() {
		issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		user := s.register(requestcontext.WithTime(ctx, issued), "carol@example.com", "9991112235")
		code := s.latestCode(ctx, user.ID)

		late := requestcontext.WithTime(ctx, issued.Add(6*time.Minute))
		err := s.service.VerifyOTP(late, "carol@example.com", code)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("resending invalidates the previous code", func() {
		issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		user := s.register(requestcontext.WithTime(ctx, issued), "dave@example.com", "9991112236")
		oldCode := s.latestCode(ctx, user.ID)

		resent := requestcontext.WithTime(ctx, issued.Add(time.Minute))
		s.Require().NoError(s.service.ResendOTP(resent, "dave@example.com"))
		newCode := s.latestCode(ctx, user.ID)

		if oldCode != newCode {
			err := s.service.VerifyOTP(resent, "dave@example.com", oldCode)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
		s.NoError(s.service.VerifyOTP(resent, "dave@example.com", newCode))
	})

	s.Run("unknown account is not found", func() {
		err := s.service.VerifyOTP(ctx, "nobody@example.com", "123456")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *DirectoryServiceSuite) TestLogin() {
	ctx := context.Background()

	s.Run("unverified account cannot log in", func() {
		s.register(ctx, "alice@example.com", "9991112233")

		_, _, err := s.service.Login(ctx, "alice@example.com", "correct horse")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("verified account receives a token", func() {
		user := s.register(ctx, "bob@example.com", "9991112234")
		s.Require().NoError(s.service.VerifyOTP(ctx, "bob@example.com", s.latestCode(ctx, user.ID)))

		token, logged, err := s.service.Login(ctx, "bob@example.com", "correct horse")
		s.Require().NoError(err)
		s.Equal("token-for-bob@example.com", token)
		s.Equal(user.ID, logged.ID)
	})

	s.Run("wrong password is unauthorized", func() {
		user := s.register(ctx, "carol@example.com", "9991112235")
		s.Require().NoError(s.service.VerifyOTP(ctx, "carol@example.com", s.latestCode(ctx, user.ID)))

		_, _, err := s.service.Login(ctx, "carol@example.com", "wrong horse")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown email is indistinguishable from wrong password", func() {
		_, _, err := s.service.Login(ctx, "nobody@example.com", "whatever")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *DirectoryServiceSuite) TestReferenceData() {
	ctx := context.Background()

	country := models.Country{ID: id.NewCountryID(), Name: "India"}
	other := models.Country{ID: id.NewCountryID(), Name: "Brazil"}
	s.store.SeedCountry(country)
	s.store.SeedCountry(other)
	s.store.SeedCity(models.City{ID: id.NewCityID(), Name: "Mumbai", CountryID: country.ID})
	s.store.SeedCity(models.City{ID: id.NewCityID(), Name: "Pune", CountryID: country.ID})
	s.store.SeedCity(models.City{ID: id.NewCityID(), Name: "Recife", CountryID: other.ID})

	countries, err := s.service.Countries(ctx)
	s.Require().NoError(err)
	s.Len(countries, 2)

	cities, err := s.service.Cities(ctx, country.ID)
	s.Require().NoError(err)
	s.Len(cities, 2)
	for _, city := range cities {
		s.Equal(country.ID, city.CountryID)
	}
}

func (s *DirectoryServiceSuite) TestVerifiedUserCount() {
	ctx := context.Background()

	count, err := s.service.VerifiedUserCount(ctx)
	s.Require().NoError(err)
	s.Zero(count)

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := s.register(ctx, email, "999111223"+string(rune('0'+i)))
		if i < 2 {
			s.Require().NoError(s.service.VerifyOTP(ctx, email, s.latestCode(ctx, user.ID)))
		}
	}

	count, err = s.service.VerifiedUserCount(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
