package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/isohub/securitycore/internal/errors"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	return c, recorder
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
		message    string
	}{
		{
			name:       "security violation collapses to generic link message",
			err:        apperrors.Wrap(apperrors.ErrSecurityViolation, "oauth state already consumed"),
			statusCode: http.StatusBadRequest,
			errorCode:  "invalid_link",
			message:    "This link is invalid or has expired",
		},
		{
			name:       "not found",
			err:        apperrors.Wrap(apperrors.ErrNotFound, "user not found"),
			statusCode: http.StatusNotFound,
			errorCode:  "not_found",
		},
		{
			name:       "conflict",
			err:        apperrors.Wrap(apperrors.ErrConflict, "duplicate"),
			statusCode: http.StatusConflict,
			errorCode:  "conflict",
		},
		{
			name:       "invalid input keeps its message",
			err:        apperrors.Wrap(apperrors.ErrInvalidInput, "ssn must be exactly 9 digits"),
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "invalid_input",
		},
		{
			name:       "unauthorized",
			err:        apperrors.Wrap(apperrors.ErrUnauthorized, "invalid reauthentication token"),
			statusCode: http.StatusUnauthorized,
			errorCode:  "unauthorized",
			message:    "Authentication is required",
		},
		{
			name:       "forbidden",
			err:        apperrors.ErrForbidden,
			statusCode: http.StatusForbidden,
			errorCode:  "forbidden",
		},
		{
			name:       "configuration errors stay internal",
			err:        apperrors.Wrap(apperrors.ErrConfiguration, "JWT_SECRET is required"),
			statusCode: http.StatusInternalServerError,
			errorCode:  "internal_error",
			message:    "An internal error occurred",
		},
		{
			name:       "unknown errors stay internal",
			err:        errors.New("database connection lost"),
			statusCode: http.StatusInternalServerError,
			errorCode:  "internal_error",
			message:    "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := testContext(t)

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.statusCode, recorder.Code)
			response := decodeErrorResponse(t, recorder)
			assert.Equal(t, tt.errorCode, response.Error)
			if tt.message != "" {
				assert.Equal(t, tt.message, response.Message)
			}
		})
	}
}

func TestHandleErrorGin_SecurityViolationNeverLeaksDetail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Every state validation failure mode must produce the same response body.
	violations := []error{
		apperrors.Wrap(apperrors.ErrSecurityViolation, "invalid oauth state signature"),
		apperrors.Wrap(apperrors.ErrSecurityViolation, "oauth state already consumed"),
		apperrors.Wrap(apperrors.ErrSecurityViolation, "oauth state tenant mismatch"),
	}

	var bodies []string
	for _, violation := range violations {
		c, recorder := testContext(t)
		HandleErrorGin(c, violation, logger)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		bodies = append(bodies, recorder.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
	assert.NotContains(t, bodies[0], "signature")
	assert.NotContains(t, bodies[0], "consumed")
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, recorder := testContext(t)

	HandleErrorGin(c, nil, nil)

	assert.Empty(t, recorder.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, recorder := testContext(t)

	HandleBadRequestGin(c, errors.New("invalid JSON"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "invalid JSON", response.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := testContext(t)

	HandleValidationErrorGin(c, errors.New("state: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	assert.Equal(t, "validation_error", response.Error)
}
