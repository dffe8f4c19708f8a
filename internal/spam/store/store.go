package store

import (
	"context"

	"calldex/internal/spam/models"
	id "calldex/pkg/domain"
)

// Store persists spam report facts. The unique constraint on
// (user_id, phone_number_id) is the ultimate guard against double reporting;
// Create surfaces it as sentinel.ErrConflict. HasReported is the friendly
// fast path in front of it.
type Store interface {
	Create(ctx context.Context, report *models.Report) error
	HasReported(ctx context.Context, userID id.UserID, phoneNumberID id.PhoneNumberID) (bool, error)
}
