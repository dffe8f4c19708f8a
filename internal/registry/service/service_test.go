package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"calldex/internal/registry/store"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
)

type RegistryServiceSuite struct {
	suite.Suite
	store   *store.Memory
	service *Service
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.store = store.NewMemory()

	var err error
	s.service, err = New(s.store)
	s.Require().NoError(err)
}

func (s *RegistryServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "registry store is required")
	})
}

func (s *RegistryServiceSuite) TestFindByNumber() {
	ctx := context.Background()

	s.Run("unknown number maps to not_found", func() {
		_, err := s.service.FindByNumber(ctx, "1231231231")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("resolved number is findable", func() {
		created, err := s.service.ResolveOrCreate(ctx, "1231231232")
		s.Require().NoError(err)

		found, err := s.service.FindByNumber(ctx, "1231231232")
		s.Require().NoError(err)
		s.Equal(created.ID, found.ID)
	})
}

func (s *RegistryServiceSuite) TestIncrementSpamCount() {
	ctx := context.Background()

	s.Run("unknown id maps to not_found", func() {
		err := s.service.IncrementSpamCount(ctx, id.NewPhoneNumberID())
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("counter moves by one per call", func() {
		entry, err := s.service.ResolveOrCreate(ctx, "1231231233")
		s.Require().NoError(err)

		s.Require().NoError(s.service.IncrementSpamCount(ctx, entry.ID))
		s.Require().NoError(s.service.IncrementSpamCount(ctx, entry.ID))

		found, err := s.service.FindByNumber(ctx, "1231231233")
		s.Require().NoError(err)
		s.Equal(2, found.SpamCount)
	})
}

func (s *RegistryServiceSuite) TestMarkRegistered() {
	ctx := context.Background()

	s.Require().NoError(s.service.MarkRegistered(ctx, "3213213213"))

	entry, err := s.service.FindByNumber(ctx, "3213213213")
	s.Require().NoError(err)
	s.True(entry.IsRegistered)
	s.Zero(entry.SpamCount)
}
