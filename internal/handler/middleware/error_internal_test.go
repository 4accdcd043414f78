//go:build unit

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Meet5113/greencart-backend/internal/handler/httperr"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(ErrorHandler(logger))
	engine.GET("/boom", handler)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return w, &buf
}

func TestErrorHandler_LogsServerErrorsWithStack(t *testing.T) {
	cause := errs.Mark(errs.Wrap(errs.New("release failed"), "compensate order"), errs.ErrCompensationFailed)

	w, buf := serve(t, func(c *gin.Context) { httperr.Respond(c, cause) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "request failed", entry["msg"])
	assert.Equal(t, "critical", entry["severity"])
	assert.Equal(t, true, entry["alert"])

	stack, ok := entry["stack"].([]any)
	require.True(t, ok, "stack should be a list of lines")
	assert.NotEmpty(t, stack)
	assert.LessOrEqual(t, len(stack), stackLogLines)
}

func TestErrorHandler_ClientErrorsAreNotLogged(t *testing.T) {
	w, buf := serve(t, func(c *gin.Context) { httperr.Respond(c, errs.ErrEmptyCart) })

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, buf.String())
}
