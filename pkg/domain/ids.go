// Package domain holds the typed identifiers shared across calldex.
// Every entity ID is a distinct uuid-backed type so the compiler rejects
// a reporter ID where a phone number ID belongs.
package domain

import (
	"github.com/google/uuid"

	dErrors "calldex/pkg/domain-errors"
)

type (
	// UserID identifies a directory account. It is the trusted identity the
	// auth middleware threads into every core operation.
	UserID uuid.UUID

	// PhoneNumberID identifies a canonical phone registry entry.
	PhoneNumberID uuid.UUID

	// ContactID identifies a per-user contact name bound to a registry entry.
	ContactID uuid.UUID

	// ReportID identifies a spam report fact.
	ReportID uuid.UUID

	// OTPID identifies one issued verification code.
	OTPID uuid.UUID

	// CountryID and CityID identify reference-data rows.
	CountryID uuid.UUID
	CityID    uuid.UUID
)

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id PhoneNumberID) String() string { return uuid.UUID(id).String() }
func (id ContactID) String() string     { return uuid.UUID(id).String() }
func (id ReportID) String() string      { return uuid.UUID(id).String() }
func (id OTPID) String() string         { return uuid.UUID(id).String() }
func (id CountryID) String() string     { return uuid.UUID(id).String() }
func (id CityID) String() string        { return uuid.UUID(id).String() }

// MarshalText lets encoding/json render IDs as canonical UUID strings
// instead of byte arrays.
func (id UserID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id PhoneNumberID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ContactID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ReportID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id OTPID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id CountryID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id CityID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id PhoneNumberID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ContactID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ReportID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id OTPID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id CountryID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CityID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// NewUserID allocates a fresh user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewPhoneNumberID allocates a fresh registry entry identifier.
func NewPhoneNumberID() PhoneNumberID { return PhoneNumberID(uuid.New()) }

// NewContactID allocates a fresh contact identifier.
func NewContactID() ContactID { return ContactID(uuid.New()) }

// NewReportID allocates a fresh spam report identifier.
func NewReportID() ReportID { return ReportID(uuid.New()) }

// NewOTPID allocates a fresh verification code identifier.
func NewOTPID() OTPID { return OTPID(uuid.New()) }

// NewCountryID allocates a fresh country identifier.
func NewCountryID() CountryID { return CountryID(uuid.New()) }

// NewCityID allocates a fresh city identifier.
func NewCityID() CityID { return CityID(uuid.New()) }

func parse(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed id")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "nil id")
	}
	return parsed, nil
}

// ParseUserID validates raw as a non-nil UUID and returns it typed.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parse(raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParsePhoneNumberID validates raw as a non-nil UUID and returns it typed.
func ParsePhoneNumberID(raw string) (PhoneNumberID, error) {
	parsed, err := parse(raw)
	if err != nil {
		return PhoneNumberID{}, err
	}
	return PhoneNumberID(parsed), nil
}

// ParseCountryID validates raw as a non-nil UUID and returns it typed.
func ParseCountryID(raw string) (CountryID, error) {
	parsed, err := parse(raw)
	if err != nil {
		return CountryID{}, err
	}
	return CountryID(parsed), nil
}

// ParseCityID validates raw as a non-nil UUID and returns it typed.
func ParseCityID(raw string) (CityID, error) {
	parsed, err := parse(raw)
	if err != nil {
		return CityID{}, err
	}
	return CityID(parsed), nil
}
