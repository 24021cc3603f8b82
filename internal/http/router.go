package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/impactreport/internal/http/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/http/auth"
	"github.com/MrJamesThe3rd/impactreport/internal/http/period"
	"github.com/MrJamesThe3rd/impactreport/internal/http/report"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer authentication on /api/v1 when non-empty.
	JWTSecret []byte
	Timeout   time.Duration
}

// New builds the API router. analysesV1 may be nil when no model service is
// configured.
func New(
	opts Options,
	periodsV1 *period.Handler,
	reportsV1 *report.Handler,
	analysesV1 *analysis.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if len(opts.JWTSecret) > 0 {
			r.Use(auth.Middleware(opts.JWTSecret))
		}

		r.Route("/periods", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			periodsV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		if analysesV1 != nil {
			r.Route("/analyses", analysesV1.Routes)
		}
	})

	return router
}
