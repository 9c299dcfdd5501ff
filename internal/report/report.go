// Package report computes aggregate analytics over an application
// snapshot: conversion rates, per-company breakdowns, stale records, and
// weekly activity.
package report

import (
	"sort"
	"time"

	"github.com/jobtab/jobtab/internal/model"
)

// Rates summarizes pipeline conversion percentages.
type Rates struct {
	Total      int     `json:"total_applications"`
	Response   float64 `json:"response_rate"`
	Interview  float64 `json:"interview_rate"`
	Offer      float64 `json:"offer_rate"`
	Acceptance float64 `json:"acceptance_rate"`
	Rejection  float64 `json:"rejection_rate"`
}

// ResponseRates computes conversion metrics. A record has "responded"
// once it moved past the initial applied status.
func ResponseRates(apps []model.Application) Rates {
	r := Rates{Total: len(apps)}
	if r.Total == 0 {
		return r
	}

	var applied, interviewed, offers, accepted, rejected int
	for _, app := range apps {
		switch app.Status {
		case model.StatusApplied:
			applied++
		case model.StatusInterviewScheduled, model.StatusInterviewed:
			interviewed++
		case model.StatusOfferReceived:
			offers++
		case model.StatusAccepted:
			accepted++
		case model.StatusRejected:
			rejected++
		}
	}

	total := float64(r.Total)
	r.Response = float64(r.Total-applied) / total * 100
	r.Interview = float64(interviewed) / total * 100
	r.Offer = float64(offers) / total * 100
	r.Acceptance = float64(accepted) / total * 100
	r.Rejection = float64(rejected) / total * 100
	return r
}

// CompanyStat aggregates the applications sent to one company.
type CompanyStat struct {
	Company  string               `json:"company"`
	Count    int                  `json:"count"`
	ByStatus map[model.Status]int `json:"by_status"`
}

// CompanyStats groups applications per company, most applications first;
// ties break alphabetically for stable output.
func CompanyStats(apps []model.Application) []CompanyStat {
	grouped := make(map[string]*CompanyStat)
	for _, app := range apps {
		st, ok := grouped[app.Company]
		if !ok {
			st = &CompanyStat{Company: app.Company, ByStatus: make(map[model.Status]int)}
			grouped[app.Company] = st
		}
		st.Count++
		st.ByStatus[app.Status]++
	}

	out := make([]CompanyStat, 0, len(grouped))
	for _, st := range grouped {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Company < out[j].Company
	})
	return out
}

// DefaultStaleDays is the cutoff Stale uses when none is given.
const DefaultStaleDays = 30

// Stale returns non-terminal applications untouched for more than days,
// oldest update first.
func Stale(apps []model.Application, days int, now time.Time) []model.Application {
	if days <= 0 {
		days = DefaultStaleDays
	}
	cutoff := now.AddDate(0, 0, -days)

	var out []model.Application
	for _, app := range apps {
		if app.Status.Terminal() {
			continue
		}
		if app.UpdatedAt.Before(cutoff) {
			out = append(out, app)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out
}

// WeekActivity is one week's application count.
type WeekActivity struct {
	WeekStart time.Time `json:"week_start"`
	Count     int       `json:"count"`
}

// WeeklyActivity buckets applications by calendar week (Monday start)
// over the trailing number of weeks, oldest week first. Weeks with no
// activity are included as zero.
func WeeklyActivity(apps []model.Application, weeks int, now time.Time) []WeekActivity {
	if weeks <= 0 {
		weeks = 4
	}

	currentWeek := weekStart(now)
	counts := make(map[time.Time]int)
	for _, app := range apps {
		ws := weekStart(app.AppliedOn())
		counts[ws]++
	}

	out := make([]WeekActivity, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		ws := currentWeek.AddDate(0, 0, -7*i)
		out = append(out, WeekActivity{WeekStart: ws, Count: counts[ws]})
	}
	return out
}

func weekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday is Sunday-based; shift to Monday.
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
