// Package validation holds the pure input checks applied at the request
// boundary. Callers must validate first and reject on failure; Sanitize is
// defense-in-depth on top of parameterized queries, never a substitute for
// validation.
package validation

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// Field length bounds. Exceeding a bound is a hard reject, not a truncation.
const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	DescriptionMaxLen = 5000
	AddressMaxLen     = 500
	LocalityMaxLen    = 200
	CityMaxLen        = 100
	HandleMaxLen      = 200
	PhoneMinLen       = 7
	PhoneMaxLen       = 15
)

// Kind selects which shape check ValidateKind applies.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindURL    Kind = "url"
)

// ValidateKind reports whether value passes the shape check for kind.
// nil, wrong dynamic type, NaN/Inf numbers, and malformed URLs all fail.
func ValidateKind(value any, kind Kind) bool {
	if value == nil {
		return false
	}
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNumber:
		switch n := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return !math.IsNaN(n) && !math.IsInf(n, 0)
		case float32:
			f := float64(n)
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return false
	case KindURL:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return ValidURL(s)
	}
	return false
}

// ValidURL checks basic well-formedness: absolute http(s) URL with a host.
func ValidURL(s string) bool {
	if s == "" || len(s) > 2048 {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// RequiredText checks a required free-text field against its length bounds.
// The empty string is invalid; bounds are inclusive.
func RequiredText(s string, minLen, maxLen int) bool {
	n := len(strings.TrimSpace(s))
	return n >= minLen && n <= maxLen && n > 0
}

// OptionalText checks an optional free-text field against its max length.
func OptionalText(s string, maxLen int) bool {
	return len(s) <= maxLen
}

// ValidPrice checks that a rent amount is a positive, sane integer.
func ValidPrice(price int) bool {
	return price > 0 && price <= 10_000_000
}

// ValidPhone checks a contact number: digits with an optional leading +.
func ValidPhone(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if len(s) < PhoneMinLen || len(s) > PhoneMaxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidHandleOrID checks the identifier accepted by read-by-handle lookups.
func ValidHandleOrID(s string) bool {
	if s == "" || len(s) > HandleMaxLen {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

// Sanitize strips control characters and escapes HTML-significant characters
// from a free-text value before it is persisted or echoed back.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		case '`':
			b.WriteString("&#96;")
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
