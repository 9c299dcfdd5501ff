package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	usajobsBaseURL = "https://data.usajobs.gov/api"

	// DefaultSearchLimit caps provider results when the caller does
	// not ask for a specific count.
	DefaultSearchLimit = 10
	providerTimeout    = 10 * time.Second
)

// USAJobs queries the USAJobs.gov API. It needs no registration, only a
// contact email sent in the User-Agent header per the API's terms.
type USAJobs struct {
	email      string
	baseURL    string
	httpClient *http.Client
}

// NewUSAJobs creates a USAJobs provider. An empty email falls back to a
// placeholder contact address.
func NewUSAJobs(email string) *USAJobs {
	if email == "" {
		email = "jobtab@example.com"
	}
	return &USAJobs{
		email:      email,
		baseURL:    usajobsBaseURL,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

// NewUSAJobsWithBaseURL points the provider at a custom endpoint (tests).
func NewUSAJobsWithBaseURL(email, baseURL string) *USAJobs {
	p := NewUSAJobs(email)
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *USAJobs) Name() string { return "usajobs" }

// Configured is always true: the API works without credentials.
func (p *USAJobs) Configured() bool { return true }

func (p *USAJobs) Search(ctx context.Context, query, location string, limit int) ([]Posting, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("Keyword", query)
	params.Set("ResultsPerPage", strconv.Itoa(min(limit, 500)))
	params.Set("Page", "1")
	if location != "" {
		params.Set("LocationName", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building usajobs request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("jobtab/1.0 (Contact: %s)", p.email))
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usajobs request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usajobs returned status %d", resp.StatusCode)
	}

	var payload struct {
		SearchResult struct {
			SearchResultItems []struct {
				MatchedObjectDescriptor usajobsDescriptor `json:"MatchedObjectDescriptor"`
			} `json:"SearchResultItems"`
		} `json:"SearchResult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding usajobs response: %w", err)
	}

	var postings []Posting
	for _, item := range payload.SearchResult.SearchResultItems {
		postings = append(postings, item.MatchedObjectDescriptor.toPosting())
		if len(postings) >= limit {
			break
		}
	}
	return postings, nil
}

type usajobsDescriptor struct {
	PositionID           string   `json:"PositionID"`
	PositionTitle        string   `json:"PositionTitle"`
	OrganizationName     string   `json:"OrganizationName"`
	QualificationSummary string   `json:"QualificationSummary"`
	PublicationStartDate string   `json:"PublicationStartDate"`
	ApplyURI             []string `json:"ApplyURI"`
	PositionLocation     []struct {
		CityName  string `json:"CityName"`
		StateCode string `json:"StateCode"`
	} `json:"PositionLocation"`
	PositionRemuneration []struct {
		MinimumRange string `json:"MinimumRange"`
		MaximumRange string `json:"MaximumRange"`
	} `json:"PositionRemuneration"`
}

func (d usajobsDescriptor) toPosting() Posting {
	post := Posting{
		JobID:          d.PositionID,
		Title:          d.PositionTitle,
		Company:        d.OrganizationName,
		Description:    d.QualificationSummary,
		SalaryCurrency: "USD",
		EmploymentType: "Full-time",
		Source:         "USAJobs.gov",
	}
	if post.Company == "" {
		post.Company = "US Government"
	}
	if len(d.ApplyURI) > 0 {
		post.URL = d.ApplyURI[0]
	}

	var locations []string
	for _, loc := range d.PositionLocation {
		if strings.EqualFold(loc.CityName, "anywhere") || strings.EqualFold(loc.CityName, "remote") {
			post.Remote = true
		}
		if loc.CityName != "" && loc.StateCode != "" && len(locations) < 2 {
			locations = append(locations, loc.CityName+", "+loc.StateCode)
		}
	}
	post.Location = strings.Join(locations, "; ")
	if post.Location == "" {
		post.Location = "USA"
	}

	if len(d.PositionRemuneration) > 0 {
		post.SalaryMin, _ = strconv.ParseFloat(d.PositionRemuneration[0].MinimumRange, 64)
		post.SalaryMax, _ = strconv.ParseFloat(d.PositionRemuneration[0].MaximumRange, 64)
	}
	if d.PublicationStartDate != "" {
		if ts, err := time.Parse(time.RFC3339, d.PublicationStartDate); err == nil {
			post.PostedAt = ts
		} else if ts, err := time.Parse("2006-01-02", d.PublicationStartDate); err == nil {
			post.PostedAt = ts
		}
	}
	return post
}
