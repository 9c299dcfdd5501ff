package jobsearch

import (
	"context"
	"strings"
	"time"
)

// Mock is the final link of the fallback chain: a fixed sample result
// set filtered by the query, so the lookup surface keeps working with no
// network and no credentials.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (*Mock) Name() string { return "mock" }

func (*Mock) Configured() bool { return true }

func (*Mock) Search(_ context.Context, query, _ string, limit int) ([]Posting, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var out []Posting
	for _, post := range samplePostings() {
		if len(out) >= limit {
			break
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(post.Title), needle) ||
			strings.Contains(strings.ToLower(post.Description), needle) {
			out = append(out, post)
		}
	}
	return out, nil
}

func samplePostings() []Posting {
	now := time.Now()
	return []Posting{
		{
			JobID:          "mock_001",
			Title:          "Senior Backend Developer",
			Company:        "Tech Solutions Inc",
			Location:       "San Francisco, CA, USA",
			Description:    "We are looking for a senior backend developer to join our team. Experience with distributed services and API development required.",
			URL:            "https://example.com/job/1",
			SalaryMin:      120000,
			SalaryMax:      160000,
			SalaryCurrency: "USD",
			EmploymentType: "Full-time",
			Remote:         true,
			PostedAt:       now,
			Source:         "Mock",
		},
		{
			JobID:          "mock_002",
			Title:          "Full Stack Engineer",
			Company:        "StartupCorp",
			Location:       "Austin, TX, USA",
			Description:    "Join our fast-growing startup! Looking for a full-stack engineer with React and service-side experience.",
			URL:            "https://example.com/job/2",
			SalaryMin:      90000,
			SalaryMax:      130000,
			SalaryCurrency: "USD",
			EmploymentType: "Full-time",
			PostedAt:       now,
			Source:         "Mock",
		},
		{
			JobID:          "mock_003",
			Title:          "Data Scientist",
			Company:        "Analytics Pro",
			Location:       "New York, NY, USA",
			Description:    "Data scientist position focusing on machine learning and predictive analytics.",
			URL:            "https://example.com/job/3",
			SalaryMin:      110000,
			SalaryMax:      150000,
			SalaryCurrency: "USD",
			EmploymentType: "Full-time",
			Remote:         true,
			PostedAt:       now,
			Source:         "Mock",
		},
	}
}
