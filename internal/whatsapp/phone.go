package whatsapp

import (
	"regexp"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

var (
	phoneNoise   = strings.NewReplacer(" ", "", "\t", "", "(", "", ")", "", "-", "")
	phonePattern = regexp.MustCompile(`^\+\d{1,15}$`)
)

// FormatPhoneNumber strips spaces, parentheses and dashes and returns the
// number in E.164 form ("+15551234567").
func FormatPhoneNumber(number string) (string, error) {
	formatted := phoneNoise.Replace(strings.TrimSpace(number))
	if !strings.HasPrefix(formatted, "+") {
		formatted = "+" + formatted
	}
	if !phonePattern.MatchString(formatted) {
		return "", invalid(ErrInvalidPhone, formatted)
	}
	return formatted, nil
}

// PhoneEndpoint turns a phone number into the user JID messages are sent to.
func PhoneEndpoint(number string) (string, error) {
	formatted, err := FormatPhoneNumber(number)
	if err != nil {
		return "", err
	}
	return types.NewJID(strings.TrimPrefix(formatted, "+"), types.DefaultUserServer).String(), nil
}
