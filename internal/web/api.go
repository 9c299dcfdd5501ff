package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jobtab/jobtab/internal/jobsearch"
	"github.com/jobtab/jobtab/internal/model"
	"github.com/jobtab/jobtab/internal/query"
	"github.com/jobtab/jobtab/internal/store"
	"github.com/jobtab/jobtab/internal/validate"
)

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// storeError maps store and validation failures onto API status codes.
func storeError(w http.ResponseWriter, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", verr)
	case errors.Is(err, store.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "application not found")
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

// listFilter builds a query.Filter from the request's query string.
func listFilter(r *http.Request) (query.Filter, error) {
	var f query.Filter
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	f.Company = q.Get("company")
	if s := q.Get("from"); s != "" {
		t, err := validate.Date(s)
		if err != nil {
			return f, err
		}
		f.From = t
	}
	if s := q.Get("to"); s != "" {
		t, err := validate.Date(s)
		if err != nil {
			return f, err
		}
		f.To = t
	}
	if s := q.Get("sort"); s != "" {
		key, err := query.ParseSortKey(s)
		if err != nil {
			return f, err
		}
		f.SortBy = key
	}
	f.Ascending = q.Get("order") == "asc"
	f.Limit = parseIntParam(r, "limit", 0, 0)
	return f, nil
}

func handleAPIList(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := listFilter(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		apps := query.List(deps.Store.Applications(), f)
		if text := r.URL.Query().Get("q"); text != "" {
			apps = query.Search(apps, text)
		}
		if apps == nil {
			apps = []model.Application{}
		}
		writeJSON(w, apps)
	}
}

// applicationBody is the JSON create/update payload. Every field is a
// raw string so validation happens in one place, inside the store.
type applicationBody struct {
	Company          *string `json:"company"`
	Position         *string `json:"position"`
	Status           *string `json:"status"`
	ApplicationDate  *string `json:"application_date"`
	JobURL           *string `json:"job_url"`
	SalaryRange      *string `json:"salary_range"`
	Location         *string `json:"location"`
	Notes            *string `json:"notes"`
	ContactPerson    *string `json:"contact_person"`
	ContactEmail     *string `json:"contact_email"`
	JobPostingID     *string `json:"job_posting_id"`
	JobPostingSource *string `json:"job_posting_source"`
	JobDescription   *string `json:"job_description"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (b applicationBody) draft() store.Draft {
	return store.Draft{
		Company:          str(b.Company),
		Position:         str(b.Position),
		Status:           str(b.Status),
		ApplicationDate:  str(b.ApplicationDate),
		JobURL:           str(b.JobURL),
		SalaryRange:      str(b.SalaryRange),
		Location:         str(b.Location),
		Notes:            str(b.Notes),
		ContactPerson:    str(b.ContactPerson),
		ContactEmail:     str(b.ContactEmail),
		JobPostingID:     str(b.JobPostingID),
		JobPostingSource: str(b.JobPostingSource),
		JobDescription:   str(b.JobDescription),
	}
}

func (b applicationBody) changes() store.Changes {
	return store.Changes{
		Company:          b.Company,
		Position:         b.Position,
		Status:           b.Status,
		ApplicationDate:  b.ApplicationDate,
		JobURL:           b.JobURL,
		SalaryRange:      b.SalaryRange,
		Location:         b.Location,
		Notes:            b.Notes,
		ContactPerson:    b.ContactPerson,
		ContactEmail:     b.ContactEmail,
		JobPostingID:     b.JobPostingID,
		JobPostingSource: b.JobPostingSource,
		JobDescription:   b.JobDescription,
	}
}

func handleAPICreate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var body applicationBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		app, err := deps.Store.Add(body.draft())
		if err != nil {
			storeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(app)
	}
}

func handleAPIGet(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := deps.Store.Get(chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, app)
	}
}

func handleAPIUpdate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var body applicationBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		app, err := deps.Store.Update(chi.URLParam(r, "id"), body.changes())
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, app)
	}
}

func handleAPIDelete(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Delete(chi.URLParam(r, "id")); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func handleAPISummary(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps := deps.Store.Applications()
		writeJSON(w, map[string]any{
			"total":    len(apps),
			"statuses": query.Summary(apps),
		})
	}
}

func handleAPIJobSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "q is required")
			return
		}
		location := r.URL.Query().Get("location")
		limit := parseIntParam(r, "limit", jobsearch.DefaultSearchLimit, 50)

		postings := deps.Jobs.Search(r.Context(), q, location, limit)
		if postings == nil {
			postings = []jobsearch.Posting{}
		}
		writeJSON(w, postings)
	}
}

func handleAPIStatus(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"version":      deps.Version,
			"applications": deps.Store.Len(),
			"data_file":    deps.Store.Path(),
			"providers":    deps.Jobs.Status(r.Context()),
		})
	}
}
