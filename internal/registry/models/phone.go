package models

import (
	id "calldex/pkg/domain"
)

// PhoneNumber is the single canonical record for one phone number, shared by
// every user. Entries are created on first reference and never deleted;
// IsRegistered flips to true exactly once when an account claims the number,
// and SpamCount only moves through the spam ledger.
type PhoneNumber struct {
	ID           id.PhoneNumberID
	Number       string
	IsRegistered bool
	SpamCount    int
}
