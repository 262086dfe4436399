// Package contact canonicalizes free-text phone and email input and extracts
// contact candidates from noisy strings. Everything the blacklist gate and the
// booking channels compare is normalized here first, so a number typed as
// "8 (913) 555-01-02" and one imported as "+7 913 5550102" collide.
package contact

import (
	"regexp"
	"strings"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var (
	nonDigitRe = regexp.MustCompile(`\D+`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

	// Textual stand-ins people use to hide "@" and "." from scrapers.
	atSubstRe  = regexp.MustCompile(`(?i)\s*(?:\(at\)|\[at\]|\{at\}|собака)\s*`)
	dotSubstRe = regexp.MustCompile(`(?i)\s*(?:\(dot\)|\[dot\]|\{dot\}|точка)\s*`)
)

// NormalizePhone strips punctuation and applies the trunk-prefix conventions:
// leading "00" international prefix is dropped, an 11-digit number starting
// with "8" becomes "7...", a bare 10-digit mobile starting with "9" gets a
// leading "7". Returns "" when the result is not a plausible phone number.
func NormalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	digits = strings.TrimPrefix(digits, "00")

	if len(digits) == 11 && digits[0] == '8' {
		digits = "7" + digits[1:]
	}
	if len(digits) == 10 && digits[0] == '9' {
		digits = "7" + digits
	}

	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return ""
	}
	return digits
}

// NormalizeEmail trims surrounding punctuation, de-obfuscates "(at)"/"(dot)"
// style substitutions, lower-cases and validates the address. Returns "" when
// the input does not yield a valid address.
func NormalizeEmail(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'<>()[]{},;:`)
	s = atSubstRe.ReplaceAllString(s, "@")
	s = dotSubstRe.ReplaceAllString(s, ".")
	s = strings.ToLower(strings.TrimSpace(s))

	if !emailRe.MatchString(s) {
		return ""
	}
	return s
}
