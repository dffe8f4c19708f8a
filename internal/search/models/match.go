package models

// Row is one alias hit produced by a single match tier, carrying the
// target's current spam count.
type Row struct {
	Name      string
	Number    string
	SpamCount int
}

// ScoredMatch is a Row after scoring and directory enrichment. Email is
// empty when the number's owner is not visible to the requesting user.
type ScoredMatch struct {
	Name           string  `json:"name"`
	Number         string  `json:"phone_number"`
	SpamLikelihood float64 `json:"spam_likelihood"`
	Email          string  `json:"email,omitempty"`
}
