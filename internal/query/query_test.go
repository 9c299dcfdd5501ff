package query

import (
	"testing"
	"time"

	"github.com/jobtab/jobtab/internal/model"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func app(company, position string, status model.Status, appliedDaysAgo int) model.Application {
	on := base.AddDate(0, 0, -appliedDaysAgo)
	return model.Application{
		ID:              company + "-" + position,
		Company:         company,
		Position:        position,
		Status:          status,
		ApplicationDate: on,
		CreatedAt:       on,
		UpdatedAt:       on,
	}
}

func TestListStatusFilterTracksUpdates(t *testing.T) {
	acme := app("Acme", "Engineer", model.StatusApplied, 1)
	apps := []model.Application{acme, app("Globex", "Analyst", model.StatusRejected, 2)}

	applied := model.StatusApplied
	got := List(apps, Filter{Status: &applied})
	if len(got) != 1 || got[0].ID != acme.ID {
		t.Fatalf("expected only the Acme application, got %v", got)
	}

	// After the status moves on, the applied filter no longer matches
	// and the new status filter does.
	acme.Status = model.StatusInterviewed
	apps[0] = acme

	if got := List(apps, Filter{Status: &applied}); len(got) != 0 {
		t.Errorf("applied filter should be empty after update, got %v", got)
	}
	interviewed := model.StatusInterviewed
	if got := List(apps, Filter{Status: &interviewed}); len(got) != 1 {
		t.Errorf("interviewed filter should match the updated record, got %v", got)
	}
}

func TestListCompanySubstringCaseInsensitive(t *testing.T) {
	apps := []model.Application{
		app("Acme Labs", "Engineer", model.StatusApplied, 1),
		app("Globex", "Analyst", model.StatusApplied, 2),
	}
	got := List(apps, Filter{Company: "acme"})
	if len(got) != 1 || got[0].Company != "Acme Labs" {
		t.Errorf("expected Acme Labs, got %v", got)
	}
}

func TestListDefaultOrderNewestFirst(t *testing.T) {
	apps := []model.Application{
		app("Old", "A", model.StatusApplied, 10),
		app("New", "B", model.StatusApplied, 1),
		app("Mid", "C", model.StatusApplied, 5),
	}
	got := List(apps, Filter{})
	if got[0].Company != "New" || got[2].Company != "Old" {
		t.Errorf("expected newest-first ordering, got %v", got)
	}
}

func TestListSortCompanyAscendingWithLimit(t *testing.T) {
	apps := []model.Application{
		app("zeta", "A", model.StatusApplied, 1),
		app("Alpha", "B", model.StatusApplied, 2),
		app("midway", "C", model.StatusApplied, 3),
	}
	got := List(apps, Filter{SortBy: SortCompany, Ascending: true, Limit: 2})
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	if got[0].Company != "Alpha" || got[1].Company != "midway" {
		t.Errorf("expected case-insensitive ascending order, got %v", got)
	}
}

func TestListDateRange(t *testing.T) {
	apps := []model.Application{
		app("In", "A", model.StatusApplied, 3),
		app("Out", "B", model.StatusApplied, 30),
	}
	got := List(apps, Filter{From: base.AddDate(0, 0, -7), To: base})
	if len(got) != 1 || got[0].Company != "In" {
		t.Errorf("expected only the in-range record, got %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if k, err := ParseSortKey(""); err != nil || k != SortDateApplied {
		t.Errorf("empty key should default to date_applied, got %v %v", k, err)
	}
	if _, err := ParseSortKey("salary"); err == nil {
		t.Error("unknown sort key must fail")
	}
}

func TestSearchAcrossFields(t *testing.T) {
	a := app("Acme", "Senior Engineer", model.StatusApplied, 1)
	b := app("Globex", "Analyst", model.StatusApplied, 2)
	b.Notes = "great engineer culture here"
	c := app("Initech", "Manager", model.StatusApplied, 3)

	got := Search([]model.Application{a, b, c}, "ENGINEER")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, m := range got {
		if m.Company == "Initech" {
			t.Error("Initech must not match")
		}
	}
}

func TestSearchOrdersByUpdatedAtDesc(t *testing.T) {
	older := app("Acme", "Engineer", model.StatusApplied, 9)
	newer := app("Globex", "Engineer", model.StatusApplied, 1)
	got := Search([]model.Application{older, newer}, "engineer")
	if len(got) != 2 || got[0].Company != "Globex" {
		t.Errorf("expected most-recently-updated first, got %v", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if got := Search([]model.Application{app("Acme", "Engineer", model.StatusApplied, 1)}, "  "); got != nil {
		t.Errorf("blank query should match nothing, got %v", got)
	}
}

func TestRecentWindow(t *testing.T) {
	apps := []model.Application{
		app("Fresh", "A", model.StatusApplied, 2),
		app("Week", "B", model.StatusApplied, 7),
		app("Stale", "C", model.StatusApplied, 8),
	}
	got := Recent(apps, 7, base)
	if len(got) != 2 {
		t.Fatalf("expected 2 recent records, got %d", len(got))
	}
	if got[0].Company != "Fresh" {
		t.Errorf("expected newest first, got %v", got)
	}
}

func TestRecentFallsBackToCreatedAt(t *testing.T) {
	a := model.Application{
		ID: "x", Company: "Acme", Position: "Engineer",
		Status:    model.StatusApplied,
		CreatedAt: base.AddDate(0, 0, -1),
		UpdatedAt: base.AddDate(0, 0, -1),
	}
	if got := Recent([]model.Application{a}, 0, base); len(got) != 1 {
		t.Errorf("record without application_date should anchor on created_at, got %v", got)
	}
}

func TestSummaryCompleteAndConsistent(t *testing.T) {
	apps := []model.Application{
		app("A", "1", model.StatusApplied, 1),
		app("B", "2", model.StatusApplied, 2),
		app("C", "3", model.StatusRejected, 3),
		app("D", "4", model.StatusOfferReceived, 4),
	}
	rows := Summary(apps)

	if len(rows) != len(model.AllStatuses()) {
		t.Fatalf("summary must cover every status, got %d rows", len(rows))
	}

	total := 0
	byStatus := make(map[model.Status]StatusCount)
	for _, row := range rows {
		total += row.Count
		byStatus[row.Status] = row
	}
	if total != len(apps) {
		t.Errorf("counts must sum to total: %d != %d", total, len(apps))
	}
	if byStatus[model.StatusApplied].Count != 2 {
		t.Errorf("expected 2 applied, got %d", byStatus[model.StatusApplied].Count)
	}
	if byStatus[model.StatusWithdrawn].Count != 0 {
		t.Errorf("zero statuses must still be reported")
	}
	if got := byStatus[model.StatusApplied].Percent; got != 50 {
		t.Errorf("expected 50%%, got %v", got)
	}
}

func TestSummaryEmptyCollection(t *testing.T) {
	rows := Summary(nil)
	if len(rows) != len(model.AllStatuses()) {
		t.Fatalf("empty summary must still list every status")
	}
	for _, row := range rows {
		if row.Count != 0 || row.Percent != 0 {
			t.Errorf("expected zero row, got %+v", row)
		}
	}
}
