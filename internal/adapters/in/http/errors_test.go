package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.NewValueIsRequiredError("store_id"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", 500, 1, 200), http.StatusBadRequest},
		{"not found", errs.NewObjectNotFoundError("order", "42"), http.StatusNotFound},
		{"unauthorized", errs.NewUnauthorizedError("u", "not the owner"), http.StatusForbidden},
		{"already assigned", errs.NewAlreadyAssignedError("42", "preparing"), http.StatusConflict},
		{"invalid state", errs.NewInvalidStateError("cancel", "delivering"), http.StatusConflict},
		{"concurrency", errs.NewConcurrencyConflictError("order", "42"), http.StatusConflict},
		{"busy", errs.NewResourceBusyError("order 42", nil), http.StatusServiceUnavailable},
		{"ledger", errs.NewLedgerInconsistencyError("42", "duplicate earning"), http.StatusInternalServerError},
		{"unknown", errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_BusySetsRetryAfter(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, writeError(ctx, discardLogger(), errs.NewResourceBusyError("order", errors.New("55P03"))))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.NotContains(t, decodeError(t, rec).Message, "55P03")
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, writeError(ctx, discardLogger(), errors.New("pq: password authentication failed")))

	body := decodeError(t, rec)
	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestWriteError_ExposesDomainMessage(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, writeError(ctx, discardLogger(), errs.NewObjectNotFoundError("order", "42")))

	body := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Contains(t, body.Message, "42")
}

func TestErrorHandler_RendersHTTPErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(discardLogger())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestErrorHandler_RendersDomainErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(discardLogger())
	e.GET("/conflict", func(echo.Context) error {
		return errs.NewAlreadyAssignedError("42", "preparing")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusConflict, decodeError(t, rec).Code)
}
