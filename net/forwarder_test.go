package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/eventangle/edge"
)

func mustParseURL(t *testing.T, rawURL string) *url.URL {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func TestNewForwarder(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		wantErr bool
	}{
		{
			name:   "should_create_forwarder",
			rawURL: "http://app.internal:8080",
		},
		{
			name:    "should_error_for_empty_url",
			rawURL:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewForwarder(tt.rawURL, 10*time.Second)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, f)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, f)
		})
	}
}

func TestForwarder_Forward(t *testing.T) {
	t.Run("should_strip_admin_credentials_on_admin_routes", func(t *testing.T) {
		httpmock.Activate()
		defer httpmock.DeactivateAndReset()

		var captured *http.Request
		httpmock.RegisterResponder(http.MethodGet, "http://app.internal/api/admin/events?page=2",
			func(req *http.Request) (*http.Response, error) {
				captured = req
				return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
			})

		f := &Forwarder{
			client: http.DefaultClient,
			target: mustParseURL(t, "http://app.internal"),
		}

		r := httptest.NewRequest(http.MethodGet, "/api/admin/events?adminKey=super-secret&page=2", nil)
		r.Header.Set("Authorization", "Bearer super-secret")
		r.Header.Set("Accept", "application/json")

		got, err := f.Forward(r)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, got.StatusCode)

		require.NotNil(t, captured)
		require.Empty(t, captured.Header.Get("Authorization"))
		require.Empty(t, captured.URL.Query().Get("adminKey"))
		require.Equal(t, "2", captured.URL.Query().Get("page"))
		require.Equal(t, "application/json", captured.Header.Get("Accept"))
		require.Equal(t, "192.0.2.1", captured.Header.Get("X-Forwarded-For"))
		require.Equal(t, string(edge.DefaultUserAgent()), captured.Header.Get("User-Agent"))
	})

	t.Run("should_propagate_request_id_upstream", func(t *testing.T) {
		httpmock.Activate()
		defer httpmock.DeactivateAndReset()

		var captured *http.Request
		httpmock.RegisterResponder(http.MethodGet, "http://app.internal/api/events",
			func(req *http.Request) (*http.Response, error) {
				captured = req
				return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
			})

		f := &Forwarder{
			client: http.DefaultClient,
			target: mustParseURL(t, "http://app.internal"),
		}

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, "edge-host/abcdef-000001")
		r = r.WithContext(ctx)

		_, err := f.Forward(r)
		require.NoError(t, err)

		require.NotNil(t, captured)
		require.Equal(t, "edge-host/abcdef-000001", captured.Header.Get("X-Request-ID"))
	})

	t.Run("should_not_send_request_id_header_without_one", func(t *testing.T) {
		httpmock.Activate()
		defer httpmock.DeactivateAndReset()

		var captured *http.Request
		httpmock.RegisterResponder(http.MethodGet, "http://app.internal/api/events",
			func(req *http.Request) (*http.Response, error) {
				captured = req
				return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
			})

		f := &Forwarder{
			client: http.DefaultClient,
			target: mustParseURL(t, "http://app.internal"),
		}

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)

		_, err := f.Forward(r)
		require.NoError(t, err)

		require.NotNil(t, captured)
		require.Empty(t, captured.Header.Get("X-Request-ID"))
	})

	t.Run("should_preserve_credentials_on_public_routes", func(t *testing.T) {
		httpmock.Activate()
		defer httpmock.DeactivateAndReset()

		var captured *http.Request
		httpmock.RegisterResponder(http.MethodGet, "http://app.internal/api/events",
			func(req *http.Request) (*http.Response, error) {
				captured = req
				return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
			})

		f := &Forwarder{
			client: http.DefaultClient,
			target: mustParseURL(t, "http://app.internal"),
		}

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		r.Header.Set("Authorization", "Bearer user-session")

		_, err := f.Forward(r)
		require.NoError(t, err)

		require.NotNil(t, captured)
		require.Equal(t, "Bearer user-session", captured.Header.Get("Authorization"))
	})

	t.Run("should_relay_upstream_response", func(t *testing.T) {
		httpmock.Activate()
		defer httpmock.DeactivateAndReset()

		responder := httpmock.NewStringResponder(http.StatusCreated, `{"id":"evt_1"}`)
		responder = responder.HeaderSet(http.Header{"Content-Type": []string{"application/json"}})
		httpmock.RegisterResponder(http.MethodPost, "http://app.internal/api/admin/events", responder)

		f := &Forwarder{
			client: http.DefaultClient,
			target: mustParseURL(t, "http://app.internal"),
		}

		r := httptest.NewRequest(http.MethodPost, "/api/admin/events", nil)

		got, err := f.Forward(r)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		got.WriteTo(w)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, `{"id":"evt_1"}`, w.Body.String())
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("should_refuse_connection", func(t *testing.T) {
		f := &Forwarder{
			client: http.DefaultClient,
			target: mustParseURL(t, "http://localhost:3234"),
		}

		r := httptest.NewRequest(http.MethodGet, "/api/events", nil)

		got, err := f.Forward(r)
		require.Error(t, err)
		require.Contains(t, got.Error, "connection refused")
	})
}
