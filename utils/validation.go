// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	// Old-style plates (ABC-1234, dash optional) and Mercosul plates (ABC1D23).
	legacyPlateRegex   = regexp.MustCompile(`^[A-Z]{3}-?[0-9]{4}$`)
	mercosulPlateRegex = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// NormalizePlate uppercases and trims a license plate for storage.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ValidatePlate checks a normalized license plate against the accepted formats.
func ValidatePlate(plate string) bool {
	plate = NormalizePlate(plate)
	return legacyPlateRegex.MatchString(plate) || mercosulPlateRegex.MatchString(plate)
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}
