package models

import (
	"time"

	id "calldex/pkg/domain"
)

// Report is the immutable fact that one user flagged one number as spam.
// At most one exists per (user, number) pair; its creation is what moves the
// registry's spam counter.
type Report struct {
	ID            id.ReportID
	UserID        id.UserID
	PhoneNumberID id.PhoneNumberID
	ReportDate    time.Time
}
