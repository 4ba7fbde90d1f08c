package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventangle/edge/internal/pkg/metrics"
	"github.com/eventangle/edge/internal/pkg/middleware"
	"github.com/eventangle/edge/net"
	"github.com/eventangle/edge/pkg/log"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIOptions carries the dependencies every handler needs. Forwarder is
// nil when no upstream is configured; API routes then answer 503.
type APIOptions struct {
	Logger    log.StdLogger
	Metrics   *metrics.Metrics
	Forwarder *net.Forwarder
}

type ApplicationHandler struct {
	Router http.Handler
	A      *APIOptions
}

func NewApplicationHandler(a *APIOptions) *ApplicationHandler {
	return &ApplicationHandler{A: a}
}

func (a *ApplicationHandler) BuildRoutes() *chi.Mux {
	router := chi.NewMux()

	mw := middleware.NewMiddleware(&middleware.CreateMiddleware{
		Logger:  a.A.Logger,
		Metrics: a.A.Metrics,
	})

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	router.Use(mw.WriteRequestIDHeader)
	router.Use(mw.LogHttpRequest())
	router.Use(mw.SetupCORS)

	// Legacy Apps Script entry point.
	router.With(mw.InstrumentPath("/exec")).Get("/exec", a.RedirectLegacyPage)

	// Everything under /api is relayed to the application server; the
	// admin gate decides per path whether credentials are required.
	router.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(mw.RateLimitByIPWithParams(100, time.Minute))
		apiRouter.Use(mw.RequireAdminAuth())
		apiRouter.With(mw.InstrumentPath("/api")).HandleFunc("/*", a.ForwardToUpstream)
	})

	router.Handle("/metrics", promhttp.HandlerFor(metrics.Reg(), promhttp.HandlerOpts{}))

	err := metrics.Reg().Register(metrics.RequestDuration())
	if err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			a.A.Logger.WithError(err).Error("failed to register request duration metric")
		}
	}

	a.Router = router

	return router
}
