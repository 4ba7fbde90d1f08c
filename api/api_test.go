package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventangle/edge/config"
	"github.com/eventangle/edge/internal/pkg/metrics"
	"github.com/eventangle/edge/net"
	"github.com/eventangle/edge/pkg/log"
	"github.com/stretchr/testify/require"
)

func overrideTestConfig(t *testing.T, adminToken, env string) {
	t.Helper()

	cfg := config.DefaultConfiguration
	cfg.Auth.AdminToken = adminToken
	cfg.Environment = env
	cfg.Metrics.IsEnabled = false
	config.Override(&cfg)
}

func newTestRouter(t *testing.T, upstreamURL string) http.Handler {
	t.Helper()

	opts := &APIOptions{
		Logger:  log.NewLogger(io.Discard),
		Metrics: metrics.InitMetrics(),
	}

	if upstreamURL != "" {
		fwd, err := net.NewForwarder(upstreamURL, 5*time.Second)
		require.NoError(t, err)
		opts.Forwarder = fwd
	}

	return NewApplicationHandler(opts).BuildRoutes()
}

func decodeEnvelope(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope
}

func TestBuildRoutes_AdminProxy(t *testing.T) {
	t.Run("should_forward_admin_route_with_valid_bearer", func(t *testing.T) {
		overrideTestConfig(t, "correct-secret", "production")

		var upstreamAuth string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			upstreamAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"events":[]}`))
		}))
		defer upstream.Close()

		router := newTestRouter(t, upstream.URL)

		r := httptest.NewRequest(http.MethodGet, "/api/admin/events", nil)
		r.Header.Set("Authorization", "Bearer correct-secret")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, `{"events":[]}`, w.Body.String())
		require.Empty(t, upstreamAuth, "admin credentials must not leave the edge")
	})

	t.Run("should_reject_admin_route_with_wrong_bearer", func(t *testing.T) {
		overrideTestConfig(t, "correct-secret", "production")

		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("upstream must not be reached")
		}))
		defer upstream.Close()

		router := newTestRouter(t, upstream.URL)

		r := httptest.NewRequest(http.MethodGet, "/api/admin/events", nil)
		r.Header.Set("Authorization", "Bearer wrong")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, `Bearer realm="EventAngle Admin API"`, w.Header().Get("WWW-Authenticate"))

		envelope := decodeEnvelope(t, w.Body)
		require.Equal(t, false, envelope["ok"])
		require.Equal(t, "INVALID_TOKEN", envelope["code"])
	})

	t.Run("should_forward_non_admin_route_without_credentials", func(t *testing.T) {
		overrideTestConfig(t, "correct-secret", "production")

		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer upstream.Close()

		router := newTestRouter(t, upstream.URL)

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("should_answer_503_when_no_upstream_is_configured", func(t *testing.T) {
		overrideTestConfig(t, "correct-secret", "production")

		router := newTestRouter(t, "")

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		envelope := decodeEnvelope(t, w.Body)
		require.Equal(t, "UPSTREAM_NOT_CONFIGURED", envelope["code"])
	})

	t.Run("should_answer_502_when_upstream_is_unreachable", func(t *testing.T) {
		overrideTestConfig(t, "correct-secret", "production")

		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close()

		router := newTestRouter(t, upstream.URL)

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusBadGateway, w.Code)

		envelope := decodeEnvelope(t, w.Body)
		require.Equal(t, "BAD_GATEWAY", envelope["code"])
		require.Equal(t, "upstream request failed", envelope["message"])
	})
}

func TestBuildRoutes_Metrics(t *testing.T) {
	overrideTestConfig(t, "correct-secret", "production")

	router := newTestRouter(t, "")

	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}
