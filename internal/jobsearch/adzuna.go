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

const adzunaBaseURL = "https://api.adzuna.com/v1/api"

// Adzuna queries the Adzuna aggregator API (registered free tier).
type Adzuna struct {
	appID      string
	apiKey     string
	country    string
	baseURL    string
	httpClient *http.Client
}

// NewAdzuna creates an Adzuna provider; it stays unconfigured until both
// the app id and the api key are present.
func NewAdzuna(appID, apiKey string) *Adzuna {
	return &Adzuna{
		appID:      appID,
		apiKey:     apiKey,
		country:    "us",
		baseURL:    adzunaBaseURL,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

// NewAdzunaWithBaseURL points the provider at a custom endpoint (tests).
func NewAdzunaWithBaseURL(appID, apiKey, baseURL string) *Adzuna {
	p := NewAdzuna(appID, apiKey)
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *Adzuna) Name() string { return "adzuna" }

func (p *Adzuna) Configured() bool { return p.appID != "" && p.apiKey != "" }

func (p *Adzuna) Search(ctx context.Context, query, location string, limit int) ([]Posting, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("adzuna credentials not configured")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("app_id", p.appID)
	params.Set("app_key", p.apiKey)
	params.Set("results_per_page", strconv.Itoa(min(limit, 50)))
	params.Set("what", query)
	if location != "" {
		params.Set("where", location)
	}

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1?%s", p.baseURL, p.country, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building adzuna request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []adzunaJob `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding adzuna response: %w", err)
	}

	var postings []Posting
	for _, job := range payload.Results {
		postings = append(postings, job.toPosting())
		if len(postings) >= limit {
			break
		}
	}
	return postings, nil
}

type adzunaJob struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	RedirectURL  string      `json:"redirect_url"`
	SalaryMin    float64     `json:"salary_min"`
	SalaryMax    float64     `json:"salary_max"`
	Created      string      `json:"created"`
	ContractType string      `json:"contract_type"`
	Company      struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

func (j adzunaJob) toPosting() Posting {
	post := Posting{
		JobID:          j.ID.String(),
		Title:          j.Title,
		Company:        j.Company.DisplayName,
		Location:       j.Location.DisplayName,
		Description:    j.Description,
		URL:            j.RedirectURL,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		SalaryCurrency: "USD",
		EmploymentType: j.ContractType,
		Source:         "Adzuna",
	}
	if post.Company == "" {
		post.Company = "Unknown Company"
	}
	if j.Created != "" {
		if ts, err := time.Parse(time.RFC3339, j.Created); err == nil {
			post.PostedAt = ts
		}
	}
	return post
}
