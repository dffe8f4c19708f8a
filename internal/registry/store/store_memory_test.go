package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func (s *MemoryStoreSuite) TestResolveOrCreate() {
	ctx := context.Background()

	s.Run("creates unregistered entry with zero spam count", func() {
		entry, err := s.store.ResolveOrCreate(ctx, "9998887776")
		s.Require().NoError(err)
		s.Equal("9998887776", entry.Number)
		s.False(entry.IsRegistered)
		s.Zero(entry.SpamCount)
		s.False(entry.ID.IsNil())
	})

	s.Run("second resolve returns the same entry", func() {
		first, err := s.store.ResolveOrCreate(ctx, "9998887776")
		s.Require().NoError(err)
		second, err := s.store.ResolveOrCreate(ctx, "9998887776")
		s.Require().NoError(err)
		s.Equal(first.ID, second.ID)
	})

	s.Run("concurrent resolves yield exactly one entry", func() {
		const goroutines = 50
		ids := make([]string, goroutines)

		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				entry, err := s.store.ResolveOrCreate(ctx, "1112223334")
				if err == nil {
					ids[idx] = entry.ID.String()
				}
			}(i)
		}
		wg.Wait()

		for i := 1; i < goroutines; i++ {
			s.Equal(ids[0], ids[i], "all callers must see the same entry")
		}
	})
}

func (s *MemoryStoreSuite) TestMarkRegistered() {
	ctx := context.Background()

	s.Run("creates entry registered when absent", func() {
		s.Require().NoError(s.store.MarkRegistered(ctx, "5556667778"))
		entry, err := s.store.FindByNumber(ctx, "5556667778")
		s.Require().NoError(err)
		s.True(entry.IsRegistered)
	})

	s.Run("flips existing entry and stays idempotent", func() {
		entry, err := s.store.ResolveOrCreate(ctx, "5556667779")
		s.Require().NoError(err)
		s.False(entry.IsRegistered)

		s.Require().NoError(s.store.MarkRegistered(ctx, "5556667779"))
		s.Require().NoError(s.store.MarkRegistered(ctx, "5556667779"))

		found, err := s.store.FindByNumber(ctx, "5556667779")
		s.Require().NoError(err)
		s.True(found.IsRegistered)
		s.Equal(entry.ID, found.ID, "re-registration must not create a new entry")
	})
}

func (s *MemoryStoreSuite) TestIncrementSpamCount() {
	ctx := context.Background()

	s.Run("unknown id returns not found", func() {
		err := s.store.IncrementSpamCount(ctx, id.NewPhoneNumberID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("k concurrent increments add exactly k", func() {
		entry, err := s.store.ResolveOrCreate(ctx, "2223334446")
		s.Require().NoError(err)

		const k = 40
		var wg sync.WaitGroup
		for i := 0; i < k; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.NoError(s.store.IncrementSpamCount(ctx, entry.ID))
			}()
		}
		wg.Wait()

		found, err := s.store.FindByNumber(ctx, "2223334446")
		s.Require().NoError(err)
		s.Equal(k, found.SpamCount)
	})
}

func (s *MemoryStoreSuite) TestFindByNumberMissing() {
	_, err := s.store.FindByNumber(context.Background(), "0000000000")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
