package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kertas-app/kertas/internal/directory"
	"github.com/kertas-app/kertas/internal/invoice"
	"github.com/kertas-app/kertas/internal/numbering"
	"github.com/kertas-app/kertas/internal/observability"
	"github.com/kertas-app/kertas/internal/quotation"
	"github.com/kertas-app/kertas/internal/rates"
	"github.com/kertas-app/kertas/jobs"
	"github.com/kertas-app/kertas/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	QuotationHandler *quotation.Handler
	InvoiceHandler   *invoice.Handler
	DirectoryHandler *directory.Handler
	RatesHandler     *rates.Handler
	NumberingHandler *numbering.Handler
	JobHandler       *jobs.Handler
	ReportHandler    *report.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Kertas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/quotations", params.QuotationHandler.MountRoutes)
	r.Route("/invoices", params.InvoiceHandler.MountRoutes)
	r.Route("/directory", params.DirectoryHandler.MountRoutes)
	r.Route("/rates", params.RatesHandler.MountRoutes)
	r.Route("/numbering", params.NumberingHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
