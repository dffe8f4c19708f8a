package shared

import (
	dErrors "calldex/pkg/domain-errors"
)

// ValidatePhoneNumber enforces the accepted wire format: 10-15 ASCII digits.
// The registry itself never re-validates format, only uniqueness, so this is
// the single gate raw input passes through.
func ValidatePhoneNumber(number string) error {
	if len(number) < 10 || len(number) > 15 {
		return dErrors.New(dErrors.CodeBadRequest, "enter a valid phone number")
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return dErrors.New(dErrors.CodeBadRequest, "enter a valid phone number")
		}
	}
	return nil
}
