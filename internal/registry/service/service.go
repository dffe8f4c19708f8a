package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"calldex/internal/registry/models"
	"calldex/internal/registry/store"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/platform/sentinel"
)

// Service owns the canonical phone number registry. It is the single source
// of truth for spam counts: the spam ledger drives the counter, search reads
// it, nothing else touches it.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("registry store is required")
	}
	svc := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ResolveOrCreate returns the registry entry for number, creating it
// unregistered when absent. Number format is validated upstream; the
// registry only cares about uniqueness.
func (s *Service) ResolveOrCreate(ctx context.Context, number string) (*models.PhoneNumber, error) {
	entry, err := s.store.ResolveOrCreate(ctx, number)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve phone number")
	}
	return entry, nil
}

// FindByNumber returns the entry or a not_found domain error.
func (s *Service) FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	entry, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "phone number not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up phone number")
	}
	return entry, nil
}

// MarkRegistered flags number as claimed by an account, creating the entry
// when absent. Idempotent; re-registration of the same number is a no-op.
func (s *Service) MarkRegistered(ctx context.Context, number string) error {
	if err := s.store.MarkRegistered(ctx, number); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark number registered")
	}
	return nil
}

// IncrementSpamCount bumps the shared counter by one. Only the spam ledger
// calls this.
func (s *Service) IncrementSpamCount(ctx context.Context, phoneNumberID id.PhoneNumberID) error {
	if err := s.store.IncrementSpamCount(ctx, phoneNumberID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "phone number not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to increment spam count")
	}
	return nil
}
