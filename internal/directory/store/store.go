package store

import (
	"context"

	"calldex/internal/directory/models"
	id "calldex/pkg/domain"
)

// Store persists directory accounts, their verification codes, and the
// country/city reference data.
type Store interface {
	// CreateUser inserts a new account. sentinel.ErrConflict signals a
	// duplicate email or phone number.
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, userID id.UserID) (*models.User, error)
	MarkVerified(ctx context.Context, userID id.UserID) error
	// CountVerified returns the number of verified, active accounts.
	CountVerified(ctx context.Context) (int, error)

	CreateOTP(ctx context.Context, otp *models.OTP) error
	// LatestOTP returns the most recently issued code for the user, or
	// sentinel.ErrNotFound when none was ever issued.
	LatestOTP(ctx context.Context, userID id.UserID) (*models.OTP, error)

	ListCountries(ctx context.Context) ([]models.Country, error)
	ListCities(ctx context.Context, countryID id.CountryID) ([]models.City, error)
}
