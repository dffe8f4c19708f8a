package store

import (
	"context"

	"calldex/internal/contacts/models"
	id "calldex/pkg/domain"
)

// Store persists per-user contact names. The unique constraint on
// (user_id, phone_number_id) is the authority for the one-contact-per-pair
// rule; Create surfaces it as sentinel.ErrConflict.
type Store interface {
	Create(ctx context.Context, contact *models.Contact) error

	// ListByOwner returns the owner's contacts joined with the current
	// canonical number of each target entry.
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]models.ContactEntry, error)
}
