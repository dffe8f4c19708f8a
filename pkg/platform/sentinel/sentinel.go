package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// so services can translate them into domain errors without inspecting driver
// internals.
//
// - ErrNotFound: row does not exist
// - ErrConflict: a uniqueness constraint rejected the write (phone number,
//   contact pair, report pair)
// - ErrExpired: a time-bounded record (OTP) is past its expiry
// - ErrUnavailable: storage temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
