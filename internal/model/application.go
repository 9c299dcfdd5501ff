package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShortIDLen is the number of leading id characters accepted as an
// unambiguous shorthand for the full id.
const ShortIDLen = 8

// Application is one tracked job application. The JSON tags define the
// on-disk document format: a single array of these objects.
type Application struct {
	ID               string    `json:"id"`
	Company          string    `json:"company"`
	Position         string    `json:"position"`
	Status           Status    `json:"status"`
	ApplicationDate  time.Time `json:"application_date"`
	JobURL           string    `json:"job_url,omitempty"`
	SalaryRange      string    `json:"salary_range,omitempty"`
	Location         string    `json:"location,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	ContactPerson    string    `json:"contact_person,omitempty"`
	ContactEmail     string    `json:"contact_email,omitempty"`
	JobPostingID     string    `json:"job_posting_id,omitempty"`
	JobPostingSource string    `json:"job_posting_source,omitempty"`
	JobDescription   string    `json:"job_description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// New constructs an application with a fresh id and default fields.
// Field validation is the store's responsibility, not the model's.
func New(company, position string, now time.Time) Application {
	return Application{
		ID:               uuid.New().String(),
		Company:          company,
		Position:         position,
		Status:           StatusApplied,
		ApplicationDate:  now,
		JobPostingSource: "Manual",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ShortID returns the first ShortIDLen characters of the id.
func (a Application) ShortID() string {
	if len(a.ID) < ShortIDLen {
		return a.ID
	}
	return a.ID[:ShortIDLen]
}

// AppliedOn is the recency anchor: the application date when set,
// otherwise the creation time.
func (a Application) AppliedOn() time.Time {
	if !a.ApplicationDate.IsZero() {
		return a.ApplicationDate
	}
	return a.CreatedAt
}

func (a Application) String() string {
	return fmt.Sprintf("%s - %s (%s)", a.Company, a.Position, a.Status)
}
