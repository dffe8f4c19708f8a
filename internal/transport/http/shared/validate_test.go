package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"0123456789", "999888777666555", "9998887776"}
	for _, number := range valid {
		assert.NoError(t, ValidatePhoneNumber(number), number)
	}

	invalid := []string{"", "123", "12345678901234567", "99988877a6", "+19998887776", "999 888 7776"}
	for _, number := range invalid {
		assert.Error(t, ValidatePhoneNumber(number), number)
	}
}
