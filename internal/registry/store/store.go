package store

import (
	"context"

	"calldex/internal/registry/models"
	id "calldex/pkg/domain"
)

// Store persists canonical phone numbers. The number column's unique
// constraint is the authority for entry identity; implementations must treat
// an insert conflict as "someone else just created it" and re-read rather
// than fail the caller.
type Store interface {
	// ResolveOrCreate returns the entry for number, creating it unregistered
	// with a zero spam count when absent. Safe under concurrent calls for the
	// same number: exactly one row ever exists.
	ResolveOrCreate(ctx context.Context, number string) (*models.PhoneNumber, error)

	// FindByNumber returns the entry or sentinel.ErrNotFound.
	FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error)

	// FindByID returns the entry or sentinel.ErrNotFound.
	FindByID(ctx context.Context, phoneNumberID id.PhoneNumberID) (*models.PhoneNumber, error)

	// MarkRegistered sets is_registered for number, creating the entry
	// registered when absent. Idempotent.
	MarkRegistered(ctx context.Context, number string) error

	// IncrementSpamCount atomically adds one to the entry's counter.
	// Returns sentinel.ErrNotFound for an unknown id.
	IncrementSpamCount(ctx context.Context, phoneNumberID id.PhoneNumberID) error
}
