package validate

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCompanyRequired(t *testing.T) {
	if _, err := Company("   "); err == nil {
		t.Fatal("expected error for blank company")
	}

	got, err := Company("  Acme Corp  ")
	if err != nil {
		t.Fatalf("Company: %v", err)
	}
	if got != "Acme Corp" {
		t.Errorf("expected trimmed name, got %q", got)
	}
}

func TestCompanyTooLong(t *testing.T) {
	_, err := Company(strings.Repeat("x", MaxCompanyLen+1))
	if err == nil {
		t.Fatal("expected error for over-long company")
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validate.Error, got %T", err)
	}
	if verr.Field != "company" {
		t.Errorf("expected field company, got %q", verr.Field)
	}
}

func TestOptionalFieldsAllowEmpty(t *testing.T) {
	checks := []func(string) (string, error){
		Location, ContactPerson, SalaryRange, Notes, ContactEmail, JobURL,
	}
	for i, fn := range checks {
		got, err := fn("  ")
		if err != nil {
			t.Errorf("check %d: unexpected error for blank value: %v", i, err)
		}
		if got != "" {
			t.Errorf("check %d: expected empty normalization, got %q", i, got)
		}
	}
}

func TestNotesLimit(t *testing.T) {
	if _, err := Notes(strings.Repeat("n", MaxNotesLen)); err != nil {
		t.Errorf("notes at limit should pass: %v", err)
	}
	if _, err := Notes(strings.Repeat("n", MaxNotesLen+1)); err == nil {
		t.Error("notes over limit should fail")
	}
}

func TestSalaryLimit(t *testing.T) {
	if _, err := SalaryRange(strings.Repeat("s", MaxSalaryLen+1)); err == nil {
		t.Error("salary over limit should fail")
	}
}

func TestContactEmail(t *testing.T) {
	got, err := ContactEmail("Jane.Doe@Example.COM")
	if err != nil {
		t.Fatalf("ContactEmail: %v", err)
	}
	if got != "jane.doe@example.com" {
		t.Errorf("expected lowercased email, got %q", got)
	}

	for _, bad := range []string{"not-an-email", "a@b", "Jane Doe <jane@example.com>", "@example.com"} {
		if _, err := ContactEmail(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestJobURL(t *testing.T) {
	if _, err := JobURL("https://example.com/job/1"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	for _, bad := range []string{"example.com/job", "https://", "://nope"} {
		if _, err := JobURL(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDate(t *testing.T) {
	got, err := Date("2025-03-09")
	if err != nil {
		t.Fatalf("Date: %v", err)
	}
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	for _, bad := range []string{"03/09/2025", "2025-3-9", "yesterday", "2025-13-01"} {
		if _, err := Date(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
