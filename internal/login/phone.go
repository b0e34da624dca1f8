package login

import "strings"

// NormalizePhone strips every non-digit from raw and, when the remaining
// number is short enough to be a local number (10 digits or fewer), prepends
// the default country code. Longer numbers are assumed to already carry one
// and pass through unchanged.
func NormalizePhone(raw, defaultCountryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) <= 10 && !strings.HasPrefix(digits, defaultCountryCode) {
		return defaultCountryCode + digits
	}
	return digits
}
