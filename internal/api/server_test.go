package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/errboard/internal/metrics"
)

const testToken = "errboard-test-token"

func newAuthServer(t *testing.T) *Server {
	t.Helper()
	handlers := newTestHandlers(t)
	loadTestSnapshot(t, handlers)
	return NewServer(ServerConfig{Host: "127.0.0.1", AuthEnabled: true, Token: testToken}, handlers)
}

func TestAuth_RejectsBadCredentials(t *testing.T) {
	server := newAuthServer(t)

	cases := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"no header", "", "missing authorization header"},
		{"basic scheme", "Basic ZXJyOmJvYXJk", "invalid authorization header format"},
		{"bare token", testToken, "invalid authorization header format"},
		{"lowercase scheme", "bearer " + testToken, "invalid authorization header format"},
		{"wrong token", "Bearer not-the-token", "invalid token"},
	}

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/status"},
		{"GET", "/api/v1/calls?filter=shop"},
		{"GET", "/api/v1/events/0"},
		{"POST", "/api/v1/reload"},
	}

	for _, tc := range cases {
		for _, route := range routes {
			t.Run(tc.name+" "+route.path, func(t *testing.T) {
				req := httptest.NewRequest(route.method, route.path, nil)
				if tc.header != "" {
					req.Header.Set("Authorization", tc.header)
				}
				w := httptest.NewRecorder()
				server.router.ServeHTTP(w, req)

				require.Equal(t, http.StatusUnauthorized, w.Code)
				resp := decodeBody[ErrorResponse](t, w)
				assert.Equal(t, "UNAUTHORIZED", resp.Code)
				assert.Equal(t, tc.wantMsg, resp.Error)
			})
		}
	}
}

func TestAuth_BearerTokenReachesHandlers(t *testing.T) {
	server := newAuthServer(t)

	req := httptest.NewRequest("GET", "/api/v1/calls?filter=SHOP", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[CallsResponse](t, w)
	assert.Equal(t, "SHOP", resp.Search.Value)
}

func TestAuth_DisabledAllowsAnonymous(t *testing.T) {
	server := setupTestServer(t)

	w := doRequest(t, server, "GET", "/api/v1/events")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_RootEndpointsAreOpen(t *testing.T) {
	server := newAuthServer(t)

	health := doRequest(t, server, "GET", "/health")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())

	m := doRequest(t, server, "GET", "/metrics")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "go_goroutines")
}

func TestCors(t *testing.T) {
	server := setupTestServer(t)

	for _, tc := range []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:5173", true},
		{"https://127.0.0.1", true},
		{"http://[::1]:8080", true},
		{"http://sentry.io", false},
		{"http://localhost.sentry.io", false},
		{"", false},
	} {
		t.Run("origin "+tc.origin, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/calls", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			if tc.allowed {
				assert.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}

	t.Run("preflight skips auth", func(t *testing.T) {
		authed := newAuthServer(t)
		req := httptest.NewRequest("OPTIONS", "/api/v1/reload", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		authed.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})
}

func TestIsLocalhostOrigin(t *testing.T) {
	allowed := []string{"http://localhost", "https://localhost:3000", "http://127.0.0.1:9000", "https://[::1]"}
	for _, origin := range allowed {
		assert.True(t, isLocalhostOrigin(origin), origin)
	}

	denied := []string{"", "localhost", "http://app.localhost", "http://127.0.0.1.nip.io", "ftp://localhost"}
	for _, origin := range denied {
		assert.False(t, isLocalhostOrigin(origin), origin)
	}
}

func TestServer_Addr(t *testing.T) {
	handlers := newTestHandlers(t)

	assert.Equal(t, "127.0.0.1:5656", NewServer(ServerConfig{Host: "127.0.0.1", Port: 5656}, handlers).Addr())
	assert.Equal(t, "[::1]:5656", NewServer(ServerConfig{Host: "::1", Port: 5656}, handlers).Addr())
}

func TestServer_Lifecycle(t *testing.T) {
	server := NewServer(ServerConfig{Host: "127.0.0.1", Port: 0}, newTestHandlers(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx), "shutdown before start is a no-op")

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestAccessLogMiddleware_CountsRoutePattern(t *testing.T) {
	handlers := newTestHandlers(t)
	loadTestSnapshot(t, handlers)
	server := NewServer(ServerConfig{Host: "127.0.0.1"}, handlers)

	for _, path := range []string{"/api/v1/events/0", "/api/v1/events/1", "/api/v1/events/99"} {
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	}

	counter := handlers.counters.APIRequests.(*metrics.PrometheusCounter)
	assert.Equal(t, 2, testutil.CollectAndCount(counter.Collector()))
	assert.Equal(t, 2.0, testutil.ToFloat64(counter.With("/api/v1/events/{index}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.With("/api/v1/events/{index}", "404")))
}
