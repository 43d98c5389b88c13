package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/99minutos/users-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
		wantLog  bool
	}{
		{
			name:     "user not found",
			err:      fmt.Errorf("lookup: %w", domain.ErrUserNotFound),
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"message":"The user with the specified ID does not exist."}`,
		},
		{
			name:     "invalid user",
			err:      fmt.Errorf("%w: bio is required", domain.ErrInvalidUser),
			wantCode: http.StatusBadRequest,
			wantBody: `{"success":false,"message":"Please provide a name and bio for the user."}`,
		},
		{
			name:     "invalid field",
			err:      fmt.Errorf("%w: bio must be a string", domain.ErrInvalidField),
			wantCode: http.StatusBadRequest,
			wantBody: `{"success":false,"message":"invalid field: bio must be a string"}`,
		},
		{
			name:     "echo client error",
			err:      echo.NewHTTPError(http.StatusUnsupportedMediaType, "Unsupported Media Type"),
			wantCode: http.StatusUnsupportedMediaType,
			wantBody: `{"success":false,"message":"Unsupported Media Type"}`,
		},
		{
			name:     "echo server error",
			err:      echo.NewHTTPError(http.StatusInternalServerError, "There was an internal error while saving the user.").SetInternal(errors.New("boom")),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"message":"There was an internal error while saving the user."}`,
			wantLog:  true,
		},
		{
			name:     "unexpected error",
			err:      errors.New("disk on fire"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"message":"internal server error"}`,
			wantLog:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.New(&logs).Level(zerolog.InfoLevel))(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			if tt.wantLog {
				assert.Contains(t, logs.String(), "unhandled error")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/api/users/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
