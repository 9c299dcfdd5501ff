// Package query implements the read-only filtering, search, and summary
// operations over a snapshot of the store's collection. Collections are
// personal-scale, so every operation is a plain linear scan.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jobtab/jobtab/internal/model"
)

// SortKey selects the field List orders by.
type SortKey string

const (
	SortDateApplied SortKey = "date_applied"
	SortCompany     SortKey = "company"
	SortPosition    SortKey = "position"
	SortStatus      SortKey = "status"
	SortCreatedAt   SortKey = "created_at"
	SortUpdatedAt   SortKey = "updated_at"
)

// SortKeys lists every accepted sort key.
func SortKeys() []SortKey {
	return []SortKey{SortDateApplied, SortCompany, SortPosition, SortStatus, SortCreatedAt, SortUpdatedAt}
}

// ParseSortKey validates a raw sort key string.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortDateApplied, nil
	}
	for _, k := range SortKeys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Filter narrows and orders a listing. Zero values mean "no constraint".
type Filter struct {
	Status    *model.Status // exact status match
	Company   string        // case-insensitive substring
	From, To  time.Time     // inclusive bounds on the applied-on date
	SortBy    SortKey       // default date_applied
	Ascending bool          // default newest/descending first
	Limit     int           // applied after sorting; 0 = unlimited
}

// List filters, orders, and truncates the given applications.
func List(apps []model.Application, f Filter) []model.Application {
	out := make([]model.Application, 0, len(apps))
	company := strings.ToLower(f.Company)
	for _, app := range apps {
		if f.Status != nil && app.Status != *f.Status {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(app.Company), company) {
			continue
		}
		on := app.AppliedOn()
		if !f.From.IsZero() && on.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && on.After(f.To) {
			continue
		}
		out = append(out, app)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortDateApplied
	}
	less := lessFunc(sortBy, out)
	sort.SliceStable(out, func(i, j int) bool {
		if f.Ascending {
			return less(i, j)
		}
		return less(j, i)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func lessFunc(key SortKey, apps []model.Application) func(i, j int) bool {
	switch key {
	case SortCompany:
		return func(i, j int) bool {
			return strings.ToLower(apps[i].Company) < strings.ToLower(apps[j].Company)
		}
	case SortPosition:
		return func(i, j int) bool {
			return strings.ToLower(apps[i].Position) < strings.ToLower(apps[j].Position)
		}
	case SortStatus:
		return func(i, j int) bool { return apps[i].Status < apps[j].Status }
	case SortCreatedAt:
		return func(i, j int) bool { return apps[i].CreatedAt.Before(apps[j].CreatedAt) }
	case SortUpdatedAt:
		return func(i, j int) bool { return apps[i].UpdatedAt.Before(apps[j].UpdatedAt) }
	default:
		return func(i, j int) bool { return apps[i].AppliedOn().Before(apps[j].AppliedOn()) }
	}
}

// Search returns applications containing text (case-insensitive) in the
// company, position, location, notes, or contact fields, most recently
// updated first.
func Search(apps []model.Application, text string) []model.Application {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}

	var out []model.Application
	for _, app := range apps {
		for _, hay := range []string{
			app.Company, app.Position, app.Location,
			app.Notes, app.ContactPerson, app.ContactEmail,
		} {
			if strings.Contains(strings.ToLower(hay), needle) {
				out = append(out, app)
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// DefaultRecentDays is the trailing window Recent uses when the caller
// does not choose one.
const DefaultRecentDays = 7

// Recent returns applications whose applied-on date falls within the
// trailing window of days ending at now, newest first.
func Recent(apps []model.Application, days int, now time.Time) []model.Application {
	if days <= 0 {
		days = DefaultRecentDays
	}
	cutoff := now.AddDate(0, 0, -days)

	var out []model.Application
	for _, app := range apps {
		on := app.AppliedOn()
		if !on.Before(cutoff) && !on.After(now) {
			out = append(out, app)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppliedOn().After(out[j].AppliedOn())
	})
	return out
}

// StatusCount is one row of the status summary.
type StatusCount struct {
	Status  model.Status `json:"status"`
	Count   int          `json:"count"`
	Percent float64      `json:"percent"`
}

// Summary counts applications per status. Every enumerated status is
// present in the result, zero counts included, in pipeline order.
func Summary(apps []model.Application) []StatusCount {
	counts := make(map[model.Status]int, len(apps))
	for _, app := range apps {
		counts[app.Status]++
	}

	total := len(apps)
	out := make([]StatusCount, 0, len(model.AllStatuses()))
	for _, st := range model.AllStatuses() {
		row := StatusCount{Status: st, Count: counts[st]}
		if total > 0 {
			row.Percent = float64(row.Count) / float64(total) * 100
		}
		out = append(out, row)
	}
	return out
}
