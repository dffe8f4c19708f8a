package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"calldex/internal/contacts/models"
	"calldex/internal/contacts/store"
	"calldex/internal/platform/metrics"
	regmodels "calldex/internal/registry/models"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/platform/sentinel"
)

// Registry is the slice of the phone registry the contact book needs: adding
// a contact for an unknown number creates the registry entry as a byproduct.
type Registry interface {
	ResolveOrCreate(ctx context.Context, number string) (*regmodels.PhoneNumber, error)
}

// Service owns per-user contact names bound to registry entries.
type Service struct {
	store    store.Store
	registry Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(st store.Store, registry Registry, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("contact store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	svc := &Service{store: st, registry: registry, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// AddContact binds a display name to number for ownerID. The registry entry
// is resolved or created first; a second contact for the same (owner, number)
// pair is rejected with a conflict, not overwritten.
func (s *Service) AddContact(ctx context.Context, ownerID id.UserID, number, name string) (*models.Contact, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "owner is required")
	}
	if name == "" || len(name) > models.MaxNameLength {
		return nil, dErrors.New(dErrors.CodeBadRequest, "contact name must be 1-100 characters")
	}

	phone, err := s.registry.ResolveOrCreate(ctx, number)
	if err != nil {
		return nil, err
	}

	contact := &models.Contact{
		ID:            id.NewContactID(),
		UserID:        ownerID,
		PhoneNumberID: phone.ID,
		Name:          name,
	}
	if err := s.store.Create(ctx, contact); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "this contact already exists for the user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add contact")
	}

	if s.metrics != nil {
		s.metrics.ContactsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "contact added",
		"user_id", ownerID,
		"phone_number_id", contact.PhoneNumberID,
	)
	return contact, nil
}

// ListContacts returns the owner's contacts with the current canonical
// number of each target.
func (s *Service) ListContacts(ctx context.Context, ownerID id.UserID) ([]models.ContactEntry, error) {
	entries, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contacts")
	}
	if entries == nil {
		entries = []models.ContactEntry{}
	}
	return entries, nil
}
