// Package web serves the browser UI and the JSON API over a shared
// chi router. Handlers close over a Deps value so tests can assemble
// a server from fakes.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jobtab/jobtab/internal/jobsearch"
	"github.com/jobtab/jobtab/internal/store"
)

const maxRequestBodySize = 1 << 20 // 1MB

type Deps struct {
	Store   *store.Store
	Jobs    *jobsearch.Service
	Version string
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", handleDashboard(deps))
	r.Get("/applications", handleApplications(deps))
	r.Get("/application/{id}", handleApplicationDetail(deps))
	r.Get("/add", handleAddForm(deps))
	r.Post("/add", handleAddSubmit(deps))
	r.Get("/edit/{id}", handleEditForm(deps))
	r.Post("/edit/{id}", handleEditSubmit(deps))
	r.Post("/delete/{id}", handleDeleteSubmit(deps))
	r.Get("/search", handleSearchPage(deps))
	r.Get("/analytics", handleAnalytics(deps))
	r.Get("/jobs", handleJobsPage(deps))
	r.Post("/jobs/apply", handleJobApply(deps))
	r.Get("/export", handleExport(deps))

	r.Route("/api", func(api chi.Router) {
		api.Get("/applications", handleAPIList(deps))
		api.Post("/applications", handleAPICreate(deps))
		api.Get("/applications/{id}", handleAPIGet(deps))
		api.Put("/applications/{id}", handleAPIUpdate(deps))
		api.Delete("/applications/{id}", handleAPIDelete(deps))
		api.Get("/summary", handleAPISummary(deps))
		api.Get("/jobs/search", handleAPIJobSearch(deps))
		api.Get("/status", handleAPIStatus(deps))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
