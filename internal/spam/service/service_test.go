package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	registryservice "calldex/internal/registry/service"
	registrystore "calldex/internal/registry/store"
	spamstore "calldex/internal/spam/store"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/requestcontext"
)

type SpamServiceSuite struct {
	suite.Suite
	registry *registrystore.Memory
	service  *Service
}

func TestSpamServiceSuite(t *testing.T) {
	suite.Run(t, new(SpamServiceSuite))
}

func (s *SpamServiceSuite) SetupTest() {
	s.registry = registrystore.NewMemory()

	reg, err := registryservice.New(s.registry)
	s.Require().NoError(err)

	s.service, err = New(spamstore.NewMemory(), reg)
	s.Require().NoError(err)
}

func (s *SpamServiceSuite) TestReportSpam() {
	ctx := context.Background()

	s.Run("unknown number fails with not_found", func() {
		err := s.service.ReportSpam(ctx, id.NewUserID(), "0001112223")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("first report succeeds and moves the counter", func() {
		entry, err := s.registry.ResolveOrCreate(ctx, "9998887776")
		s.Require().NoError(err)

		reporter := id.NewUserID()
		s.Require().NoError(s.service.ReportSpam(ctx, reporter, "9998887776"))

		found, err := s.registry.FindByNumber(ctx, "9998887776")
		s.Require().NoError(err)
		s.Equal(entry.ID, found.ID)
		s.Equal(1, found.SpamCount)
	})

	s.Run("second report by the same reporter is rejected", func() {
		_, err := s.registry.ResolveOrCreate(ctx, "9998887777")
		s.Require().NoError(err)

		reporter := id.NewUserID()
		s.Require().NoError(s.service.ReportSpam(ctx, reporter, "9998887777"))

		err = s.service.ReportSpam(ctx, reporter, "9998887777")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		// The rejection must not move the counter.
		found, err := s.registry.FindByNumber(ctx, "9998887777")
		s.Require().NoError(err)
		s.Equal(1, found.SpamCount)
	})

	s.Run("k distinct reporters increment by exactly k", func() {
		_, err := s.registry.ResolveOrCreate(ctx, "9998887778")
		s.Require().NoError(err)

		const k = 30
		var wg sync.WaitGroup
		for i := 0; i < k; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.NoError(s.service.ReportSpam(ctx, id.NewUserID(), "9998887778"))
			}()
		}
		wg.Wait()

		found, err := s.registry.FindByNumber(ctx, "9998887778")
		s.Require().NoError(err)
		s.Equal(k, found.SpamCount)
	})

	s.Run("report date comes from the request clock", func() {
		_, err := s.registry.ResolveOrCreate(ctx, "9998887779")
		s.Require().NoError(err)

		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		err = s.service.ReportSpam(requestcontext.WithTime(ctx, at), id.NewUserID(), "9998887779")
		s.NoError(err)
	})
}
