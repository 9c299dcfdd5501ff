package jobsearch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options carries the provider credentials. All fields are optional; an
// empty Options yields a mock-only chain.
type Options struct {
	USAJobsEmail string
	AdzunaAppID  string
	AdzunaAPIKey string
	RapidAPIKey  string
}

// Service drives the provider fallback chain. Providers are tried in
// priority order; the first non-empty result wins and every failure is
// logged and swallowed, so a search never errors past this boundary.
type Service struct {
	providers []Provider
	mock      Provider
}

// NewService builds the standard chain: USAJobs, then Adzuna and JSearch
// when configured, with mock data as the final fallback.
func NewService(opts Options) *Service {
	providers := []Provider{NewUSAJobs(opts.USAJobsEmail)}
	if p := NewAdzuna(opts.AdzunaAppID, opts.AdzunaAPIKey); p.Configured() {
		providers = append(providers, p)
	}
	if p := NewJSearch(opts.RapidAPIKey); p.Configured() {
		providers = append(providers, p)
	}
	return &Service{providers: providers, mock: NewMock()}
}

// NewServiceWithProviders builds a chain from explicit providers (tests).
func NewServiceWithProviders(mock Provider, providers ...Provider) *Service {
	return &Service{providers: providers, mock: mock}
}

// Providers returns the configured chain, mock excluded.
func (s *Service) Providers() []Provider {
	out := make([]Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Search walks the chain and returns the first non-empty result set,
// falling back to sample data when every provider fails or comes back
// empty.
func (s *Service) Search(ctx context.Context, query, location string, limit int) []Posting {
	for _, p := range s.providers {
		postings, err := p.Search(ctx, query, location, limit)
		if err != nil {
			slog.Warn("job search provider failed", "provider", p.Name(), "error", err)
			continue
		}
		if len(postings) == 0 {
			slog.Debug("job search provider returned no results", "provider", p.Name(), "query", query)
			continue
		}
		slog.Debug("job search provider succeeded", "provider", p.Name(), "results", len(postings))
		return postings
	}

	slog.Warn("all job search providers failed or empty, using sample data", "query", query)
	postings, err := s.mock.Search(ctx, query, location, limit)
	if err != nil {
		// The mock provider cannot fail, but never propagate regardless.
		slog.Error("mock provider failed", "error", err)
		return nil
	}
	return postings
}

// ProviderStatus describes one provider for status reporting.
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable"`
	Detail     string `json:"detail,omitempty"`
}

// Status probes every configured provider concurrently with a tiny
// search and reports configuration plus reachability. The mock provider
// is always reported last and always available.
func (s *Service) Status(ctx context.Context) []ProviderStatus {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	statuses := make([]ProviderStatus, len(s.providers)+1)
	g, probeCtx := errgroup.WithContext(probeCtx)
	for i, p := range s.providers {
		i, p := i, p
		g.Go(func() error {
			st := ProviderStatus{Name: p.Name(), Configured: p.Configured()}
			if st.Configured {
				if _, err := p.Search(probeCtx, "engineer", "", 1); err != nil {
					st.Detail = err.Error()
				} else {
					st.Reachable = true
				}
			}
			statuses[i] = st
			return nil
		})
	}
	g.Wait()

	statuses[len(s.providers)] = ProviderStatus{Name: s.mock.Name(), Configured: true, Reachable: true}
	return statuses
}
