package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jobtab/jobtab/internal/model"
	"github.com/jobtab/jobtab/internal/query"
	"github.com/jobtab/jobtab/internal/report"
	"github.com/jobtab/jobtab/internal/store"
)

// formValues echoes user input back into the add/edit form so a
// validation failure does not wipe what was typed.
type formValues struct {
	Company         string
	Position        string
	Status          string
	ApplicationDate string
	Location        string
	SalaryRange     string
	JobURL          string
	ContactPerson   string
	ContactEmail    string
	Notes           string
}

func formFromRequest(r *http.Request) formValues {
	return formValues{
		Company:         r.FormValue("company"),
		Position:        r.FormValue("position"),
		Status:          r.FormValue("status"),
		ApplicationDate: r.FormValue("application_date"),
		Location:        r.FormValue("location"),
		SalaryRange:     r.FormValue("salary_range"),
		JobURL:          r.FormValue("job_url"),
		ContactPerson:   r.FormValue("contact_person"),
		ContactEmail:    r.FormValue("contact_email"),
		Notes:           r.FormValue("notes"),
	}
}

func formFromApp(app model.Application) formValues {
	return formValues{
		Company:         app.Company,
		Position:        app.Position,
		Status:          app.Status.String(),
		ApplicationDate: app.ApplicationDate.Format("2006-01-02"),
		Location:        app.Location,
		SalaryRange:     app.SalaryRange,
		JobURL:          app.JobURL,
		ContactPerson:   app.ContactPerson,
		ContactEmail:    app.ContactEmail,
		Notes:           app.Notes,
	}
}

func (f formValues) draft() store.Draft {
	return store.Draft{
		Company:         f.Company,
		Position:        f.Position,
		Status:          f.Status,
		ApplicationDate: f.ApplicationDate,
		JobURL:          f.JobURL,
		SalaryRange:     f.SalaryRange,
		Location:        f.Location,
		Notes:           f.Notes,
		ContactPerson:   f.ContactPerson,
		ContactEmail:    f.ContactEmail,
	}
}

func (f formValues) changes() store.Changes {
	return store.Changes{
		Company:         &f.Company,
		Position:        &f.Position,
		Status:          &f.Status,
		ApplicationDate: &f.ApplicationDate,
		JobURL:          &f.JobURL,
		SalaryRange:     &f.SalaryRange,
		Location:        &f.Location,
		Notes:           &f.Notes,
		ContactPerson:   &f.ContactPerson,
		ContactEmail:    &f.ContactEmail,
	}
}

type formPage struct {
	Title    string
	Action   string
	Error    string
	Form     formValues
	Statuses []model.Status
}

const dashboardRecentCount = 5

func handleDashboard(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps := deps.Store.Applications()
		render(w, "dashboard", struct {
			Title  string
			Total  int
			Counts []query.StatusCount
			Rates  report.Rates
			Recent []model.Application
		}{
			Title:  "Dashboard",
			Total:  len(apps),
			Counts: query.Summary(apps),
			Rates:  report.ResponseRates(apps),
			Recent: query.List(apps, query.Filter{
				SortBy: query.SortUpdatedAt,
				Limit:  dashboardRecentCount,
			}),
		})
	}
}

func handleApplications(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := listFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		order := "desc"
		if f.Ascending {
			order = "asc"
		}
		render(w, "applications", struct {
			Title          string
			Statuses       []model.Status
			SortKeys       []query.SortKey
			SelectedStatus string
			Company        string
			SelectedSort   string
			Order          string
			Applications   []model.Application
		}{
			Title:          "Applications",
			Statuses:       model.AllStatuses(),
			SortKeys:       query.SortKeys(),
			SelectedStatus: r.URL.Query().Get("status"),
			Company:        f.Company,
			SelectedSort:   r.URL.Query().Get("sort"),
			Order:          order,
			Applications:   query.List(deps.Store.Applications(), f),
		})
	}
}

const analyticsWeeks = 8

func handleAnalytics(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps := deps.Store.Applications()
		now := time.Now()
		render(w, "analytics", struct {
			Title     string
			Rates     report.Rates
			Companies []report.CompanyStat
			Weekly    []report.WeekActivity
			Stale     []model.Application
			StaleDays int
		}{
			Title:     "Analytics",
			Rates:     report.ResponseRates(apps),
			Companies: report.CompanyStats(apps),
			Weekly:    report.WeeklyActivity(apps, analyticsWeeks, now),
			Stale:     report.Stale(apps, report.DefaultStaleDays, now),
			StaleDays: report.DefaultStaleDays,
		})
	}
}

func handleApplicationDetail(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := deps.Store.Get(chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		render(w, "application", struct {
			Title string
			App   model.Application
		}{
			Title: fmt.Sprintf("%s - %s", app.Company, app.Position),
			App:   app,
		})
	}
}

func handleAddForm(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, "form", formPage{
			Title:    "Add Application",
			Action:   "/add",
			Form:     formValues{Status: model.StatusApplied.String()},
			Statuses: model.AllStatuses(),
		})
	}
}

func handleAddSubmit(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := formFromRequest(r)
		app, err := deps.Store.Add(form.draft())
		if err != nil {
			render(w, "form", formPage{
				Title:    "Add Application",
				Action:   "/add",
				Error:    err.Error(),
				Form:     form,
				Statuses: model.AllStatuses(),
			})
			return
		}
		http.Redirect(w, r, "/application/"+app.ID, http.StatusSeeOther)
	}
}

func handleEditForm(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := deps.Store.Get(chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		render(w, "form", formPage{
			Title:    "Edit Application",
			Action:   "/edit/" + app.ID,
			Form:     formFromApp(app),
			Statuses: model.AllStatuses(),
		})
	}
}

func handleEditSubmit(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		form := formFromRequest(r)
		app, err := deps.Store.Update(id, form.changes())
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			render(w, "form", formPage{
				Title:    "Edit Application",
				Action:   "/edit/" + id,
				Error:    err.Error(),
				Form:     form,
				Statuses: model.AllStatuses(),
			})
			return
		}
		http.Redirect(w, r, "/application/"+app.ID, http.StatusSeeOther)
	}
}

func handleDeleteSubmit(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Store.Delete(chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/applications", http.StatusSeeOther)
	}
}

func handleSearchPage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		var results []model.Application
		if q != "" {
			results = query.Search(deps.Store.Applications(), q)
		}
		render(w, "search", struct {
			Title   string
			Query   string
			Results []model.Application
		}{
			Title:   "Search",
			Query:   q,
			Results: results,
		})
	}
}

type jobsPage struct {
	Title    string
	Query    string
	Location string
	Error    string
	Postings []jobPosting
}

// jobPosting narrows jobsearch.Posting for the template.
type jobPosting struct {
	JobID       string
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Remote      bool
	Source      string
	SalaryRange string
}

func handleJobsPage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := jobsPage{
			Title:    "Find Jobs",
			Query:    r.URL.Query().Get("q"),
			Location: r.URL.Query().Get("location"),
		}
		if page.Query != "" {
			for _, p := range deps.Jobs.Search(r.Context(), page.Query, page.Location, jobsPageSize) {
				page.Postings = append(page.Postings, jobPosting{
					JobID:       p.JobID,
					Title:       p.Title,
					Company:     p.Company,
					Location:    p.Location,
					Description: truncateDescription(p.Description),
					URL:         p.URL,
					Remote:      p.Remote,
					Source:      p.Source,
					SalaryRange: p.SalaryRange(),
				})
			}
		}
		render(w, "jobs", page)
	}
}

// jobsPageSize is how many postings the jobs page requests.
const jobsPageSize = 10

const maxDescriptionChars = 300

func truncateDescription(s string) string {
	if len(s) <= maxDescriptionChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxDescriptionChars {
		return s
	}
	return string(runes[:maxDescriptionChars]) + "..."
}

// handleJobApply re-runs the search the posting came from, finds it by
// job id, and records it as a tracked application.
func handleJobApply(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.FormValue("job_id")
		q := r.FormValue("q")
		location := r.FormValue("location")

		for _, p := range deps.Jobs.Search(r.Context(), q, location, jobsPageSize) {
			if p.JobID != jobID {
				continue
			}
			app, err := deps.Store.Add(p.Draft())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, "/application/"+app.ID, http.StatusSeeOther)
			return
		}

		params := url.Values{"q": {q}, "location": {location}}
		http.Redirect(w, r, "/jobs?"+params.Encode(), http.StatusSeeOther)
	}
}

func handleExport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stamp := time.Now().Format("20060102")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=applications_%s.json", stamp))

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(deps.Store.Applications())
	}
}
