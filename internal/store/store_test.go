package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jobtab/jobtab/internal/model"
	"github.com/jobtab/jobtab/internal/validate"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func openTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s, err := Open(filepath.Join(t.TempDir(), "applications.json"), WithClock(clock))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, clock
}

func TestAddThenGetRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	added, err := s.Add(Draft{
		Company:       "Acme",
		Position:      "Engineer",
		Location:      "  Berlin  ",
		ContactEmail:  "Recruiter@Acme.COM",
		JobURL:        "https://acme.example/jobs/1",
		SalaryRange:   "90k-120k",
		Notes:         "referred by Sam",
		ContactPerson: "Sam",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if added.Status != model.StatusApplied {
		t.Errorf("expected default status applied, got %s", added.Status)
	}
	if added.JobPostingSource != "Manual" {
		t.Errorf("expected default source Manual, got %q", added.JobPostingSource)
	}
	if added.Location != "Berlin" {
		t.Errorf("expected trimmed location, got %q", added.Location)
	}
	if added.ContactEmail != "recruiter@acme.com" {
		t.Errorf("expected lowercased email, got %q", added.ContactEmail)
	}

	got, err := s.Get(added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != added {
		t.Errorf("Get returned a different record:\n add: %+v\n got: %+v", added, got)
	}
}

func TestAddValidationAbortsWithoutMutation(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Add(Draft{Company: "Acme", Position: "Engineer", ContactEmail: "nope"})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validate.Error, got %v", err)
	}
	if verr.Field != "contact_email" {
		t.Errorf("expected contact_email failure, got %q", verr.Field)
	}
	if s.Len() != 0 {
		t.Errorf("failed add must not mutate the collection, have %d records", s.Len())
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("failed add must not create the document")
	}
}

func TestAddExplicitDateAndStatus(t *testing.T) {
	s, _ := openTestStore(t)

	app, err := s.Add(Draft{
		Company:         "Acme",
		Position:        "Engineer",
		Status:          "screening",
		ApplicationDate: "2025-05-20",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if app.Status != model.StatusScreening {
		t.Errorf("expected screening, got %s", app.Status)
	}
	want := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	if !app.ApplicationDate.Equal(want) {
		t.Errorf("expected %v, got %v", want, app.ApplicationDate)
	}

	if _, err := s.Add(Draft{Company: "Acme", Position: "Engineer", Status: "ghosted"}); err == nil {
		t.Error("unknown status must be rejected")
	}
}

func TestPrefixResolution(t *testing.T) {
	s, _ := openTestStore(t)

	app, err := s.Add(Draft{Company: "Acme", Position: "Engineer"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get(app.ID[:model.ShortIDLen])
	if err != nil {
		t.Fatalf("Get by prefix: %v", err)
	}
	if got.ID != app.ID {
		t.Errorf("prefix resolved to wrong record %s", got.ID)
	}

	if _, err := s.Get("ffffffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown prefix, got %v", err)
	}
	if _, err := s.Get(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestAmbiguousPrefixIsNotFound(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "applications.json")

	// Seed two records sharing an 8-char prefix.
	doc := `[
	  {"id": "aaaaaaaa-1111-4000-8000-000000000001", "company": "Acme", "position": "Engineer",
	   "status": "applied", "application_date": "2025-05-01T00:00:00Z",
	   "created_at": "2025-05-01T00:00:00Z", "updated_at": "2025-05-01T00:00:00Z"},
	  {"id": "aaaaaaaa-2222-4000-8000-000000000002", "company": "Globex", "position": "Analyst",
	   "status": "applied", "application_date": "2025-05-02T00:00:00Z",
	   "created_at": "2025-05-02T00:00:00Z", "updated_at": "2025-05-02T00:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := s.Get("aaaaaaaa"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ambiguous prefix must report ErrNotFound, got %v", err)
	}
	if got := s.Resolve("aaaaaaaa"); len(got) != 2 {
		t.Errorf("Resolve should list both candidates, got %d", len(got))
	}

	// A full id still resolves even with a shared prefix.
	if _, err := s.Get("aaaaaaaa-1111-4000-8000-000000000001"); err != nil {
		t.Errorf("full id must resolve: %v", err)
	}
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	s, clock := openTestStore(t)

	app, err := s.Add(Draft{Company: "Acme", Position: "Engineer", Location: "Berlin"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	clock.advance(time.Hour)
	status := "interviewed"
	updated, err := s.Update(app.ShortID(), Changes{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Status != model.StatusInterviewed {
		t.Errorf("expected interviewed, got %s", updated.Status)
	}
	if updated.Company != app.Company || updated.Position != app.Position || updated.Location != app.Location {
		t.Error("update must leave unspecified fields untouched")
	}
	if !updated.CreatedAt.Equal(app.CreatedAt) {
		t.Error("created_at must never change on update")
	}
	if !updated.UpdatedAt.After(app.UpdatedAt) {
		t.Errorf("updated_at must strictly increase: %v -> %v", app.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdatedAtIncreasesWithFrozenClock(t *testing.T) {
	s, _ := openTestStore(t)

	app, err := s.Add(Draft{Company: "Acme", Position: "Engineer"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	prev := app.UpdatedAt
	for i := 0; i < 3; i++ {
		notes := "round"
		app, err = s.Update(app.ID, Changes{Notes: &notes})
		if err != nil {
			t.Fatalf("Update %d: %v", i, err)
		}
		if !app.UpdatedAt.After(prev) {
			t.Fatalf("updated_at did not increase on round %d: %v", i, app.UpdatedAt)
		}
		prev = app.UpdatedAt
	}
}

func TestUpdateValidationLeavesRecordUntouched(t *testing.T) {
	s, _ := openTestStore(t)

	app, err := s.Add(Draft{Company: "Acme", Position: "Engineer"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	company := "New Corp"
	badURL := "not a url"
	if _, err := s.Update(app.ID, Changes{Company: &company, JobURL: &badURL}); err == nil {
		t.Fatal("expected validation error")
	}

	got, err := s.Get(app.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != app {
		t.Errorf("failed update must not change the record:\n was: %+v\n now: %+v", app, got)
	}
}

func TestDeleteThenGetFails(t *testing.T) {
	s, _ := openTestStore(t)

	app, err := s.Add(Draft{Company: "Acme", Position: "Engineer"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Delete(app.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(app.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(app.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete must report ErrNotFound, got %v", err)
	}
}

func TestSaveFailureKeepsPriorState(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not restrict root")
	}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	path := filepath.Join(dir, "applications.json")

	s, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first, err := s.Add(Draft{Company: "Acme", Position: "Engineer"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o700) })

	if _, err := s.Add(Draft{Company: "Globex", Position: "Analyst"}); err == nil {
		t.Fatal("Add must fail when the document cannot be written")
	}
	status := "screening"
	if _, err := s.Update(first.ID, Changes{Status: &status}); err == nil {
		t.Fatal("Update must fail when the document cannot be written")
	}

	if s.Len() != 1 {
		t.Fatalf("collection len = %d after failed saves, want 1", s.Len())
	}
	got, err := s.Get(first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != first {
		t.Errorf("record changed after failed save:\n want: %+v\n got:  %+v", first, got)
	}

	os.Chmod(dir, 0o700)
	reloaded, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("document holds %d records, want the 1 saved before the failure", reloaded.Len())
	}
	if _, err := reloaded.Get(first.ID); err != nil {
		t.Errorf("saved record missing from document: %v", err)
	}
}

func TestSaveReloadRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "applications.json")

	s, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	drafts := []Draft{
		{Company: "Acme", Position: "Engineer", Notes: "first"},
		{Company: "Globex", Position: "Analyst", ContactEmail: "hr@globex.example.com"},
		{Company: "Initech", Position: "Manager", Status: "rejected"},
	}
	want := make(map[string]bool)
	for _, d := range drafts {
		clock.advance(time.Minute)
		app, err := s.Add(d)
		if err != nil {
			t.Fatalf("Add %s: %v", d.Company, err)
		}
		want[app.ID] = true
	}

	reloaded, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.Len() != len(drafts) {
		t.Fatalf("expected %d records after reload, got %d", len(drafts), reloaded.Len())
	}
	for _, app := range reloaded.Applications() {
		if !want[app.ID] {
			t.Errorf("unexpected record %s after reload", app.ID)
		}
		orig, err := s.Get(app.ID)
		if err != nil {
			t.Fatalf("Get original %s: %v", app.ID, err)
		}
		if app != orig {
			t.Errorf("reload mismatch for %s:\n want: %+v\n got:  %+v", app.ID, orig, app)
		}
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "applications.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty collection, got %d records", s.Len())
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory should have been created: %v", err)
	}
}

func TestLoadMalformedDocumentFails(t *testing.T) {
	cases := map[string]string{
		"truncated":       `[{"id": "x"`,
		"missing company": `[{"id": "aaaaaaaa-0000-4000-8000-000000000001", "position": "Engineer", "status": "applied", "created_at": "2025-05-01T00:00:00Z", "updated_at": "2025-05-01T00:00:00Z"}]`,
		"bad status":      `[{"id": "aaaaaaaa-0000-4000-8000-000000000001", "company": "Acme", "position": "Engineer", "status": "maybe", "created_at": "2025-05-01T00:00:00Z", "updated_at": "2025-05-01T00:00:00Z"}]`,
		"duplicate id": `[
		  {"id": "aaaaaaaa-0000-4000-8000-000000000001", "company": "Acme", "position": "Engineer", "status": "applied", "created_at": "2025-05-01T00:00:00Z", "updated_at": "2025-05-01T00:00:00Z"},
		  {"id": "aaaaaaaa-0000-4000-8000-000000000001", "company": "Globex", "position": "Analyst", "status": "applied", "created_at": "2025-05-01T00:00:00Z", "updated_at": "2025-05-01T00:00:00Z"}
		]`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "applications.json")
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Open(path); err == nil {
				t.Error("expected load error for malformed document")
			}
		})
	}
}

func TestDocumentIsPlainJSONArray(t *testing.T) {
	s, _ := openTestStore(t)

	if _, err := s.Add(Draft{Company: "Acme", Position: "Engineer"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		t.Errorf("document must be a JSON array, got: %.40s", text)
	}

	// No stray temp files survive a save.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".applications-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}
