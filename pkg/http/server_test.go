package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applogger "ACATN/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes func(e *echo.Echo)

func (r routes) RegisterRoutes(e *echo.Echo) { r(e) }

type pingRequest struct {
	Mode string `query:"mode" default:"fast" validate:"oneof=fast slow"`
	Name string `query:"name" validate:"required"`
}

func testServer(t *testing.T, h Handler) (*Server, *prometheus.Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := applogger.New(&applogger.Config{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return NewServer(h, WithLogger(l), WithPrometheus(reg, reg)), reg, &buf
}

func serve(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRecoverFromPanic(t *testing.T) {
	s, _, buf := testServer(t, routes(func(e *echo.Echo) {
		e.GET("/boom", func(c echo.Context) error { panic("kaboom") })
	}))

	rec := serve(s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestMetricsByRoute(t *testing.T) {
	s, reg, _ := testServer(t, routes(func(e *echo.Echo) {
		e.GET("/items/:id", func(c echo.Context) error { return SuccessResponse(c, c.Param("id")) })
	}))

	serve(s, "/items/1")
	serve(s, "/items/2")

	body := serve(s, "/metrics").Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/items/:id",status="200"} 2`)
	assert.NotContains(t, body, `route="/items/1"`)

	n, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series for /items/:id and one for /metrics")
}

func TestReadAndValidateRequest(t *testing.T) {
	s, _, _ := testServer(t, routes(func(e *echo.Echo) {
		e.GET("/ping", func(c echo.Context) error {
			req := &pingRequest{}
			if verr := ReadAndValidateRequest(c, req); verr != nil {
				return BadRequestResponse(c, verr)
			}
			return SuccessResponse(c, req)
		})
	}))

	rec := serve(s, "/ping?name=acatn")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":{"Mode":"fast","Name":"acatn"}}`, rec.Body.String())

	rec = serve(s, "/ping?mode=warp")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR_ONEOF","field":"mode"`)
	assert.Contains(t, rec.Body.String(), `"code":"ERR_REQUIRED","field":"name"`)
}

func TestAppErrorResponse(t *testing.T) {
	s, _, _ := testServer(t, routes(func(e *echo.Echo) {
		e.GET("/down", func(c echo.Context) error {
			return AppErrorResponse(c, UnavailableError("not ready").WithError(errors.New("cause")))
		})
		e.GET("/plain", func(c echo.Context) error {
			return AppErrorResponse(c, errors.New("opaque"))
		})
	}))

	rec := serve(s, "/down")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":503,"message":"Service Unavailable","data":[{"code":"ERR_UNAVAILABLE","message":"not ready"}]}`, rec.Body.String())

	rec = serve(s, "/plain")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "opaque")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NotFoundError("missing").WithError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "missing: cause", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Status)
}

func TestWithTimeoutsKeepsDefaults(t *testing.T) {
	s := NewServer(nil, WithTimeouts(0, 3*time.Second, -1))
	assert.Equal(t, 10*time.Second, s.Echo().Server.ReadTimeout)
	assert.Equal(t, 3*time.Second, s.Echo().Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, s.config.ShutdownTimeout)
}

func TestInternalError(t *testing.T) {
	err := InternalError("encode config").WithError(errors.New("yaml: cannot marshal"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "ERR_INTERNAL", err.Code)
}
