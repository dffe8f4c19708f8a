package models

import (
	id "calldex/pkg/domain"
)

// MaxNameLength bounds contact display names.
const MaxNameLength = 100

// Contact is one user's private display name for a registry entry. A user
// holds at most one contact per phone number; a second attempt for the same
// pair is rejected, never overwritten.
type Contact struct {
	ID            id.ContactID
	UserID        id.UserID
	PhoneNumberID id.PhoneNumberID
	Name          string
}

// ContactEntry is the list/read view: the display name joined with the
// current canonical number of its registry entry.
type ContactEntry struct {
	Name   string `json:"name"`
	Number string `json:"phone_number"`
}
