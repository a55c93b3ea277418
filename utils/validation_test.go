package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePlate(t *testing.T) {
	valid := []string{"ABC-1234", "ABC1234", "abc-1234", " XYZ-0001 ", "BRA2E19"}
	for _, plate := range valid {
		assert.True(t, ValidatePlate(plate), "expected %q to be valid", plate)
	}

	invalid := []string{"", "1234", "ABCD-1234", "AB-1234", "ABC-12345", "ABC12E3"}
	for _, plate := range invalid {
		assert.False(t, ValidatePlate(plate), "expected %q to be invalid", plate)
	}
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC-1234", NormalizePlate("  abc-1234 "))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+55 11 98888-7777"))
	assert.True(t, ValidatePhone("11988887777"))
	assert.False(t, ValidatePhone("not-a-phone"))
	assert.False(t, ValidatePhone("+0"))
}
