package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const jsearchBaseURL = "https://jsearch.p.rapidapi.com"

// JSearch queries the JSearch aggregator on RapidAPI (paid tier).
type JSearch struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewJSearch creates a JSearch provider; it stays unconfigured until the
// RapidAPI key is present.
func NewJSearch(apiKey string) *JSearch {
	return &JSearch{
		apiKey:     apiKey,
		baseURL:    jsearchBaseURL,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

// NewJSearchWithBaseURL points the provider at a custom endpoint (tests).
func NewJSearchWithBaseURL(apiKey, baseURL string) *JSearch {
	p := NewJSearch(apiKey)
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *JSearch) Name() string { return "jsearch" }

func (p *JSearch) Configured() bool { return p.apiKey != "" }

func (p *JSearch) Search(ctx context.Context, query, location string, limit int) ([]Posting, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("jsearch api key not configured")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	search := query
	if location != "" {
		search += " in " + location
	}
	params := url.Values{}
	params.Set("query", search)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	params.Set("date_posted", "all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building jsearch request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", "jsearch.p.rapidapi.com")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jsearch returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data []jsearchJob `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding jsearch response: %w", err)
	}

	var postings []Posting
	for _, job := range payload.Data {
		postings = append(postings, job.toPosting())
		if len(postings) >= limit {
			break
		}
	}
	return postings, nil
}

type jsearchJob struct {
	JobID          string  `json:"job_id"`
	Title          string  `json:"job_title"`
	EmployerName   string  `json:"employer_name"`
	City           string  `json:"job_city"`
	State          string  `json:"job_state"`
	Country        string  `json:"job_country"`
	Description    string  `json:"job_description"`
	ApplyLink      string  `json:"job_apply_link"`
	MinSalary      float64 `json:"job_min_salary"`
	MaxSalary      float64 `json:"job_max_salary"`
	SalaryCurrency string  `json:"job_salary_currency"`
	EmploymentType string  `json:"job_employment_type"`
	IsRemote       bool    `json:"job_is_remote"`
	PostedAtUTC    string  `json:"job_posted_at_datetime_utc"`
}

func (j jsearchJob) toPosting() Posting {
	var parts []string
	for _, p := range []string{j.City, j.State, j.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	post := Posting{
		JobID:          j.JobID,
		Title:          j.Title,
		Company:        j.EmployerName,
		Location:       strings.Join(parts, ", "),
		Description:    j.Description,
		URL:            j.ApplyLink,
		SalaryMin:      j.MinSalary,
		SalaryMax:      j.MaxSalary,
		SalaryCurrency: j.SalaryCurrency,
		EmploymentType: j.EmploymentType,
		Remote:         j.IsRemote,
		Source:         "JSearch",
	}
	if j.PostedAtUTC != "" {
		if ts, err := time.Parse(time.RFC3339, j.PostedAtUTC); err == nil {
			post.PostedAt = ts
		}
	}
	return post
}
