package models

import (
	"time"

	id "calldex/pkg/domain"
)

// User is a directory account. PhoneNumber is the account's own registered
// number, unique across all accounts.
type User struct {
	ID           id.UserID
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  string
	CityID       *id.CityID
	CountryID    *id.CountryID
	IsVerified   bool
	IsActive     bool
	CreatedAt    time.Time
}

// OTP is one issued verification code. Only the most recently issued code
// for a user is honored.
type OTP struct {
	ID        id.OTPID
	UserID    id.UserID
	Code      string
	CreatedAt time.Time
	ExpireAt  time.Time
}

// Country is a reference-data row offered during registration.
type Country struct {
	ID   id.CountryID `json:"id"`
	Name string       `json:"name"`
}

// City is a reference-data row scoped to a country.
type City struct {
	ID        id.CityID    `json:"id"`
	Name      string       `json:"name"`
	CountryID id.CountryID `json:"country_id"`
}
