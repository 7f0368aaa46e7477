package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/powergen-lab/powergen-etl/internal/metrics"
	storagemocks "github.com/powergen-lab/powergen-etl/internal/mocks/storage"
)

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestHealth(t *testing.T) {
	store := storagemocks.NewStore(t)
	store.EXPECT().Ping(mock.Anything).Return(nil).Once()

	s := New(Options{Addr: ":0", Health: store})
	resp := get(t, s, "/health")

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"status":"healthy"`)
}

func TestHealth_DatabaseDown(t *testing.T) {
	store := storagemocks.NewStore(t)
	store.EXPECT().Ping(mock.Anything).Return(errors.New("dial tcp: refused")).Once()

	s := New(Options{Addr: ":0", Health: store})
	resp := get(t, s, "/health")

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Contains(t, resp.Body.String(), "database unreachable")
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New("powergen")
	m.IncDBRetry("ping")

	s := New(Options{Addr: ":0", Metrics: m.Handler()})
	resp := get(t, s, "/metrics")

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `powergen_db_retries_total{op="ping"} 1`)

	noMetrics := New(Options{Addr: ":0"})
	require.Equal(t, http.StatusNotFound, get(t, noMetrics, "/metrics").Code)
}

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func TestRoutesAreMounted(t *testing.T) {
	s := New(Options{Addr: ":0", Routes: []RouteRegistrar{pingRoutes{}}})
	resp := get(t, s, "/v1/ping")

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "pong", resp.Body.String())
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
