// Package jobsearch queries external job-listing services through an
// ordered fallback chain. Provider failures never escape the chain; when
// every provider fails or is unconfigured, built-in sample data is
// returned instead.
package jobsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jobtab/jobtab/internal/store"
)

// Posting is one job listing returned by a provider.
type Posting struct {
	JobID          string    `json:"job_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	URL            string    `json:"job_url"`
	SalaryMin      float64   `json:"salary_min,omitempty"`
	SalaryMax      float64   `json:"salary_max,omitempty"`
	SalaryCurrency string    `json:"salary_currency,omitempty"`
	EmploymentType string    `json:"employment_type,omitempty"`
	Remote         bool      `json:"remote"`
	PostedAt       time.Time `json:"posted_at,omitempty"`
	Source         string    `json:"source"`
}

// SalaryRange formats the salary bounds for display, or "" when unknown.
func (p Posting) SalaryRange() string {
	currency := p.SalaryCurrency
	if currency == "" {
		currency = "USD"
	}
	switch {
	case p.SalaryMin > 0 && p.SalaryMax > 0:
		return fmt.Sprintf("$%.0f - $%.0f %s", p.SalaryMin, p.SalaryMax, currency)
	case p.SalaryMin > 0:
		return fmt.Sprintf("$%.0f+ %s", p.SalaryMin, currency)
	}
	return ""
}

// Draft converts the posting into a store draft so the user can track an
// application against it.
func (p Posting) Draft() store.Draft {
	notes := fmt.Sprintf("Applied via job posting lookup\nSource: %s\nJob ID: %s", p.Source, p.JobID)
	if p.EmploymentType != "" {
		notes += "\nEmployment type: " + p.EmploymentType
	}
	salary := p.SalaryRange()
	if len(salary) > 50 {
		salary = ""
	}
	return store.Draft{
		Company:          p.Company,
		Position:         p.Title,
		JobURL:           p.URL,
		SalaryRange:      salary,
		Location:         truncate(p.Location, 100),
		Notes:            notes,
		JobPostingID:     p.JobID,
		JobPostingSource: p.Source,
		JobDescription:   p.Description,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// Provider is one job-listing backend in the fallback chain.
type Provider interface {
	// Name identifies the provider in logs and status reports.
	Name() string
	// Configured reports whether required credentials are present.
	Configured() bool
	// Search returns up to limit postings for the query.
	Search(ctx context.Context, query, location string, limit int) ([]Posting, error)
}
