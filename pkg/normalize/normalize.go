// Package normalize provides the canonicalizers the crosswalk engine runs
// raw attribute values through before any comparison or lookup. Every
// function is pure and idempotent: normalizing an already-normalized value
// returns it unchanged, so the same function can safely be applied to both
// sides of a comparison.
package normalize

import (
	"strconv"
	"strings"
)

// unsetMarkers are the literal strings pandas-era exports use for a missing
// value. They all normalize to the empty string.
var unsetMarkers = map[string]struct{}{
	"nan":  {},
	"NaN":  {},
	"None": {},
	"null": {},
}

// Text trims surrounding whitespace and collapses the known unset markers
// to the empty string. It is the base canonicalizer for free-text fields.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if _, unset := unsetMarkers[s]; unset {
		return ""
	}
	return s
}

// Numeric canonicalizes a numeric-like field stored as text: trailing ".0"
// decorations from float round-trips are stripped, unset markers become
// empty. Leading zeros are preserved, so CCN-style identifiers survive.
func Numeric(s string) string {
	s = Text(s)
	for strings.HasSuffix(s, ".0") {
		s = strings.TrimSuffix(s, ".0")
	}
	return s
}

// NumericID canonicalizes an identifier that must parse as a number, such
// as a registry ID or NPI. Exports frequently decorate these as floats
// ("4711.0"), so the value is parsed and reformatted as integer text.
// Anything that does not parse normalizes to empty, which callers treat as
// "no value" rather than an error.
func NumericID(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(int64(f), 10)
}

// Digits returns only the decimal digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone formats a US phone number as "(123) 456-7890". Ten-digit numbers
// and eleven-digit numbers with a leading 1 are formatted; anything else
// passes through as trimmed text.
func Phone(s string) string {
	if Text(s) == "" {
		return ""
	}
	digits := Digits(s)
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "(" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	default:
		return Text(s)
	}
}

// Zip formats a postal code as a 5-digit string, zero-padded on the left.
// Longer codes (ZIP+4) are truncated to the first five digits.
func Zip(s string) string {
	digits := Digits(Numeric(s))
	if digits == "" {
		return ""
	}
	if len(digits) >= 5 {
		return digits[:5]
	}
	return strings.Repeat("0", 5-len(digits)) + digits
}

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(Text(s))
}

// Address composes a single-line address from its parts, skipping blanks.
func Address(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Text(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
