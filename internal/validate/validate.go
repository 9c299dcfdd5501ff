// Package validate holds the pure field validators applied by the store
// before any application field is written.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// Field length limits.
const (
	MaxCompanyLen  = 100
	MaxPositionLen = 100
	MaxLocationLen = 100
	MaxContactLen  = 100
	MaxSalaryLen   = 50
	MaxNotesLen    = 2000
)

// DateLayout is the only accepted format for explicit application dates.
const DateLayout = "2006-01-02"

// Error names the offending field and the violated rule.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func fail(field, format string, args ...any) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func requiredText(field, s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fail(field, "cannot be empty")
	}
	if len(s) > maxLen {
		return "", fail(field, "cannot exceed %d characters", maxLen)
	}
	return s, nil
}

func optionalText(field, s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return "", fail(field, "cannot exceed %d characters", maxLen)
	}
	return s, nil
}

// Company checks and normalizes a company name.
func Company(s string) (string, error) {
	return requiredText("company", s, MaxCompanyLen)
}

// Position checks and normalizes a position title.
func Position(s string) (string, error) {
	return requiredText("position", s, MaxPositionLen)
}

// Location checks and normalizes an optional job location.
func Location(s string) (string, error) {
	return optionalText("location", s, MaxLocationLen)
}

// ContactPerson checks and normalizes an optional contact name.
func ContactPerson(s string) (string, error) {
	return optionalText("contact_person", s, MaxContactLen)
}

// SalaryRange checks and normalizes an optional salary range string.
func SalaryRange(s string) (string, error) {
	return optionalText("salary_range", s, MaxSalaryLen)
}

// Notes checks and normalizes optional free-text notes.
func Notes(s string) (string, error) {
	return optionalText("notes", s, MaxNotesLen)
}

// ContactEmail checks an optional email address and lowercases it.
// The address must be a bare local@domain with a dotted domain.
func ContactEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fail("contact_email", "invalid email format %q", s)
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	if !strings.Contains(domain, ".") {
		return "", fail("contact_email", "invalid email format %q", s)
	}
	return strings.ToLower(s), nil
}

// JobURL checks an optional URL; it must carry a scheme and a host.
func JobURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fail("job_url", "invalid URL format %q", s)
	}
	return s, nil
}

// Date parses a YYYY-MM-DD application date.
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fail("application_date", "invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}
