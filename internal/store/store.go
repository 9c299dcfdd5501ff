// Package store owns the canonical collection of applications and its
// JSON document on disk. It is the sole writer of that document; every
// mutation validates its inputs, applies them in memory, and atomically
// replaces the whole file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jobtab/jobtab/internal/model"
	"github.com/jobtab/jobtab/internal/validate"
)

// ErrNotFound is returned when an identifier resolves to zero records or
// to more than one (ambiguous prefix).
var ErrNotFound = errors.New("application not found")

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store holds the in-memory collection backed by a single JSON document.
// It is safe for concurrent use; the HTTP adapter shares one instance
// across requests.
type Store struct {
	path  string
	clock Clock

	mu   sync.RWMutex
	apps []model.Application
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithClock replaces the wall clock (used by tests).
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Open loads the document at path into memory, creating the parent
// directory if needed. A missing document yields an empty collection; a
// malformed one is a fatal error.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: data file path is required")
	}
	s := &Store{path: path, clock: realClock{}}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing document location.
func (s *Store) Path() string { return s.path }

// Len returns the number of applications held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apps)
}

// Applications returns a snapshot copy of the collection for the read
// path; callers never mutate store-owned records directly.
func (s *Store) Applications() []model.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// snapshot copies the collection; the caller must hold the lock.
func (s *Store) snapshot() []model.Application {
	out := make([]model.Application, len(s.apps))
	copy(out, s.apps)
	return out
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.apps = nil
			return nil
		}
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	var apps []model.Application
	if err := json.Unmarshal(data, &apps); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	seen := make(map[string]bool, len(apps))
	for i, app := range apps {
		if app.ID == "" {
			return fmt.Errorf("parsing %s: record %d has no id", s.path, i)
		}
		if seen[app.ID] {
			return fmt.Errorf("parsing %s: duplicate id %s", s.path, app.ID)
		}
		seen[app.ID] = true
		if app.Company == "" || app.Position == "" {
			return fmt.Errorf("parsing %s: record %s missing company or position", s.path, app.ID)
		}
		if _, err := model.ParseStatus(string(app.Status)); err != nil {
			return fmt.Errorf("parsing %s: record %s: %w", s.path, app.ID, err)
		}
	}

	s.apps = apps
	return nil
}

// save serializes apps and atomically replaces the backing document via
// write-to-temp-then-rename, so a crash mid-write never leaves a
// truncated file. On success the slice becomes the in-memory collection.
func (s *Store) save(apps []model.Application) error {
	if apps == nil {
		apps = []model.Application{}
	}
	data, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding applications: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".applications-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	s.apps = apps
	return nil
}

// Draft carries the raw user-supplied fields for a new application.
// Empty optional fields stay at their defaults.
type Draft struct {
	Company          string
	Position         string
	Status           string
	ApplicationDate  string
	JobURL           string
	SalaryRange      string
	Location         string
	Notes            string
	ContactPerson    string
	ContactEmail     string
	JobPostingID     string
	JobPostingSource string
	JobDescription   string
}

// Add validates every supplied field, constructs the record with
// defaults, appends it, and persists the collection.
func (s *Store) Add(d Draft) (model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, err := validate.Company(d.Company)
	if err != nil {
		return model.Application{}, err
	}
	position, err := validate.Position(d.Position)
	if err != nil {
		return model.Application{}, err
	}

	app := model.New(company, position, s.stamp())

	if d.Status != "" {
		st, err := model.ParseStatus(d.Status)
		if err != nil {
			return model.Application{}, &validate.Error{Field: "status", Reason: err.Error()}
		}
		app.Status = st
	}
	if app.ApplicationDate, err = applyDate(d.ApplicationDate, app.ApplicationDate); err != nil {
		return model.Application{}, err
	}
	if app.JobURL, err = validate.JobURL(d.JobURL); err != nil {
		return model.Application{}, err
	}
	if app.SalaryRange, err = validate.SalaryRange(d.SalaryRange); err != nil {
		return model.Application{}, err
	}
	if app.Location, err = validate.Location(d.Location); err != nil {
		return model.Application{}, err
	}
	if app.Notes, err = validate.Notes(d.Notes); err != nil {
		return model.Application{}, err
	}
	if app.ContactPerson, err = validate.ContactPerson(d.ContactPerson); err != nil {
		return model.Application{}, err
	}
	if app.ContactEmail, err = validate.ContactEmail(d.ContactEmail); err != nil {
		return model.Application{}, err
	}
	app.JobPostingID = d.JobPostingID
	if d.JobPostingSource != "" {
		app.JobPostingSource = d.JobPostingSource
	}
	app.JobDescription = d.JobDescription

	next := append(s.snapshot(), app)
	if err := s.save(next); err != nil {
		return model.Application{}, err
	}
	return app, nil
}

// Get resolves id as a full identifier or an unambiguous prefix.
func (s *Store) Get(id string) (model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, err := s.resolve(id)
	if err != nil {
		return model.Application{}, err
	}
	return s.apps[idx], nil
}

// Resolve returns every application whose id starts with prefix, for
// adapters that want to show candidates on an ambiguous match.
func (s *Store) Resolve(prefix string) []model.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Application
	for _, app := range s.apps {
		if strings.HasPrefix(app.ID, prefix) {
			out = append(out, app)
		}
	}
	return out
}

func (s *Store) resolve(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, ErrNotFound
	}
	for i, app := range s.apps {
		if app.ID == id {
			return i, nil
		}
	}
	match := -1
	for i, app := range s.apps {
		if strings.HasPrefix(app.ID, id) {
			if match >= 0 {
				return 0, fmt.Errorf("ambiguous id %q: %w", id, ErrNotFound)
			}
			match = i
		}
	}
	if match < 0 {
		return 0, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return match, nil
}

// Changes describes a partial update; nil fields are left untouched.
type Changes struct {
	Company          *string
	Position         *string
	Status           *string
	ApplicationDate  *string
	JobURL           *string
	SalaryRange      *string
	Location         *string
	Notes            *string
	ContactPerson    *string
	ContactEmail     *string
	JobPostingID     *string
	JobPostingSource *string
	JobDescription   *string
}

// Update resolves id, validates each changed field, applies the change
// set, refreshes updated_at, and persists. A validation failure leaves
// the record untouched.
func (s *Store) Update(id string, c Changes) (model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.resolve(id)
	if err != nil {
		return model.Application{}, err
	}
	app := s.apps[idx]

	if c.Company != nil {
		if app.Company, err = validate.Company(*c.Company); err != nil {
			return model.Application{}, err
		}
	}
	if c.Position != nil {
		if app.Position, err = validate.Position(*c.Position); err != nil {
			return model.Application{}, err
		}
	}
	if c.Status != nil {
		st, err := model.ParseStatus(*c.Status)
		if err != nil {
			return model.Application{}, &validate.Error{Field: "status", Reason: err.Error()}
		}
		app.Status = st
	}
	if c.ApplicationDate != nil {
		if app.ApplicationDate, err = applyDate(*c.ApplicationDate, app.ApplicationDate); err != nil {
			return model.Application{}, err
		}
	}
	if c.JobURL != nil {
		if app.JobURL, err = validate.JobURL(*c.JobURL); err != nil {
			return model.Application{}, err
		}
	}
	if c.SalaryRange != nil {
		if app.SalaryRange, err = validate.SalaryRange(*c.SalaryRange); err != nil {
			return model.Application{}, err
		}
	}
	if c.Location != nil {
		if app.Location, err = validate.Location(*c.Location); err != nil {
			return model.Application{}, err
		}
	}
	if c.Notes != nil {
		if app.Notes, err = validate.Notes(*c.Notes); err != nil {
			return model.Application{}, err
		}
	}
	if c.ContactPerson != nil {
		if app.ContactPerson, err = validate.ContactPerson(*c.ContactPerson); err != nil {
			return model.Application{}, err
		}
	}
	if c.ContactEmail != nil {
		if app.ContactEmail, err = validate.ContactEmail(*c.ContactEmail); err != nil {
			return model.Application{}, err
		}
	}
	if c.JobPostingID != nil {
		app.JobPostingID = *c.JobPostingID
	}
	if c.JobPostingSource != nil {
		app.JobPostingSource = *c.JobPostingSource
	}
	if c.JobDescription != nil {
		app.JobDescription = *c.JobDescription
	}

	app.UpdatedAt = s.stampAfter(app.UpdatedAt)

	next := s.snapshot()
	next[idx] = app
	if err := s.save(next); err != nil {
		return model.Application{}, err
	}
	return app, nil
}

// Delete resolves id, removes the record, and persists the remainder.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.resolve(id)
	if err != nil {
		return err
	}
	next := s.snapshot()
	next = append(next[:idx], next[idx+1:]...)
	return s.save(next)
}

func (s *Store) stamp() time.Time {
	return s.clock.Now()
}

// stampAfter guarantees updated_at strictly increases even when the
// clock resolution would yield an identical timestamp.
func (s *Store) stampAfter(prev time.Time) time.Time {
	now := s.clock.Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func applyDate(raw string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return validate.Date(raw)
}
