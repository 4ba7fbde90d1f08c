package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventangle/edge/auth"
	"github.com/eventangle/edge/config"
	"github.com/eventangle/edge/internal/pkg/metrics"
	"github.com/eventangle/edge/pkg/log"
	"github.com/eventangle/edge/util"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
)

type contextKey string

const adminCtx contextKey = "admin"

type Middleware struct {
	logger  log.StdLogger
	metrics *metrics.Metrics
}

type CreateMiddleware struct {
	Logger  log.StdLogger
	Metrics *metrics.Metrics
}

func NewMiddleware(cs *CreateMiddleware) *Middleware {
	return &Middleware{
		logger:  cs.Logger,
		metrics: cs.Metrics,
	}
}

// RequireAdminAuth gates admin surfaces behind the shared admin token.
// Non-admin routes pass through untouched; on denial the gate's error
// envelope is rendered and the chain stops.
func (m *Middleware) RequireAdminAuth() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg, err := config.Get()
			if err != nil {
				m.logger.WithError(err).Error("failed to load configuration")
				_ = render.Render(w, r, util.NewErrorResponse("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError))
				return
			}

			binding := cfg.AuthBinding()

			authCtx, errResp := auth.GuardRoute(r, binding)
			if errResp != nil {
				m.metrics.IncrementAuthDecision(metrics.DecisionDenied, string(errResp.Code), "none")
				_ = render.Render(w, r, errResp)
				return
			}

			if authCtx != nil {
				reason := "ok"
				if !binding.IsConfigured() {
					reason = "fail_open"
				}

				m.metrics.IncrementAuthDecision(metrics.DecisionGranted, reason, string(authCtx.Method))
				r = r.WithContext(setAdminInContext(r.Context(), authCtx))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) InstrumentPath(path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			metrics.RequestDuration().WithLabelValues(r.Method, path,
				strconv.Itoa(m.Code)).Observe(m.Duration.Seconds())
		})
	}
}

func (m *Middleware) WriteRequestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", r.Context().Value(middleware.RequestIDKey).(string))
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) SetupCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg, err := config.Get()
		if err != nil {
			m.logger.WithError(err).Error("failed to load configuration")
			return
		}

		if env := cfg.Environment; env == config.DevelopmentEnvironment {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		}

		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) RateLimitByIPWithParams(requestLimit int, windowLength time.Duration) func(next http.Handler) http.Handler {
	return httprate.LimitByIP(requestLimit, windowLength)
}

func (m *Middleware) LogHttpRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				requestFields := requestLogFields(r)
				responseFields := responseLogFields(ww, start)

				logFields := map[string]interface{}{
					"httpRequest":  requestFields,
					"httpResponse": responseFields,
				}

				lvl, err := m.statusLevel(ww.Status()).ToLogrusLevel()
				if err != nil {
					m.logger.WithError(err).Error("Failed to generate status level")
				}

				m.logger.WithFields(logFields).Log(lvl, requestFields["requestURL"])
			}()

			requestID := middleware.GetReqID(r.Context())
			ctx := log.NewContext(r.Context(), m.logger, log.Fields{"request_id": requestID})
			r = r.WithContext(ctx)

			next.ServeHTTP(ww, r)
		})
	}
}

func requestLogFields(r *http.Request) map[string]interface{} {
	scheme := "http"

	if r.TLS != nil {
		scheme = "https"
	}

	requestURL := fmt.Sprintf("%s://%s%s", scheme, r.Host, sanitizedRequestURI(r))

	requestFields := map[string]interface{}{
		"requestURL":    requestURL,
		"requestMethod": r.Method,
		"requestPath":   r.URL.Path,
		"remoteIP":      r.RemoteAddr,
		"proto":         r.Proto,
		"scheme":        scheme,
	}

	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		requestFields["x-request-id"] = reqID
	}

	if len(r.Header) > 0 {
		requestFields["header"] = headerFields(r.Header)
	}

	return requestFields
}

// sanitizedRequestURI masks the admin key credential channel so request
// logs never carry token material.
func sanitizedRequestURI(r *http.Request) string {
	if r.URL.Query().Get(auth.QueryParamAdminKey) == "" {
		return r.RequestURI
	}

	u := *r.URL
	q := u.Query()
	q.Set(auth.QueryParamAdminKey, "***")
	u.RawQuery = q.Encode()

	return u.RequestURI()
}

func responseLogFields(w middleware.WrapResponseWriter, t time.Time) map[string]interface{} {
	responseFields := map[string]interface{}{
		"status":  w.Status(),
		"bytes":   w.BytesWritten(),
		"latency": time.Since(t),
	}

	if len(w.Header()) > 0 {
		responseFields["header"] = headerFields(w.Header())
	}

	return responseFields
}

func (m *Middleware) statusLevel(status int) log.Level {
	switch {
	case status <= 0:
		return log.WarnLevel
	case status < 400:
		return log.InfoLevel
	case status >= 400 && status < 500:
		return log.WarnLevel
	case status >= 500:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func headerFields(header http.Header) map[string]string {
	headerField := map[string]string{}

	for k, v := range header {
		k = strings.ToLower(k)
		switch {
		case len(v) == 0:
			continue
		case len(v) == 1:
			headerField[k] = v[0]
		default:
			headerField[k] = fmt.Sprintf("[%s]", strings.Join(v, "], ["))
		}
		if k == "authorization" || k == "cookie" || k == "set-cookie" {
			headerField[k] = "***"
		}
	}

	return headerField
}

func setAdminInContext(ctx context.Context, a *auth.Context) context.Context {
	return context.WithValue(ctx, adminCtx, a)
}

// GetAdminFromContext returns the admin auth context for the request, or
// nil when the request did not pass through the admin gate.
func GetAdminFromContext(ctx context.Context) *auth.Context {
	if a, ok := ctx.Value(adminCtx).(*auth.Context); ok {
		return a
	}

	return nil
}

