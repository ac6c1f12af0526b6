package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/isohub/securitycore/internal/identity"
	"github.com/isohub/securitycore/internal/reauth/domain"
	"github.com/isohub/securitycore/internal/reauth/http/dto"
)

type mockReauthUseCase struct {
	mock.Mock
}

func (m *mockReauthUseCase) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (*domain.Grant, error) {
	args := m.Called(ctx, userID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Grant), args.Error(1)
}

func (m *mockReauthUseCase) VerifyTOTP(ctx context.Context, userID uuid.UUID, code string) (*domain.Grant, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Grant), args.Error(1)
}

func (m *mockReauthUseCase) ValidateReauthToken(ctx context.Context, token string, expectedUserID *uuid.UUID) (*domain.Validated, error) {
	args := m.Called(ctx, token, expectedUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Validated), args.Error(1)
}

func (m *mockReauthUseCase) ConsumeReauthToken(ctx context.Context, token string, expectedUserID *uuid.UUID) (*domain.Validated, bool, error) {
	args := m.Called(ctx, token, expectedUserID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Validated), args.Bool(1), args.Error(2)
}

func (m *mockReauthUseCase) RevokeAllTokensForUser(ctx context.Context, userID uuid.UUID) int {
	args := m.Called(ctx, userID)
	return args.Int(0)
}

func (m *mockReauthUseCase) RunSweepLoop(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestContext(t *testing.T, method, path string, body any, id *identity.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if id != nil {
		req = req.WithContext(identity.WithIdentity(req.Context(), id))
	}
	c.Request = req
	return c, recorder
}

func TestReauthHandler_VerifyPasswordHandler(t *testing.T) {
	id := &identity.Identity{
		UserID:   uuid.Must(uuid.NewV7()),
		AgencyID: uuid.Must(uuid.NewV7()),
	}

	t.Run("success returns a grant", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		grant := &domain.Grant{Token: "signed-grant", ExpiresIn: 300}
		mockUseCase.On("VerifyPassword", mock.Anything, id.UserID, "the password").Return(grant, nil)

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/password",
			dto.VerifyPasswordRequest{Password: "the password"}, id)
		handler.VerifyPasswordHandler(c)

		assert.Equal(t, http.StatusCreated, recorder.Code)

		var response dto.GrantResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "signed-grant", response.ReauthToken)
		assert.Equal(t, int64(300), response.ExpiresIn)
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		mockUseCase.On("VerifyPassword", mock.Anything, id.UserID, "wrong").
			Return(nil, domain.ErrReauthFailed)

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/password",
			dto.VerifyPasswordRequest{Password: "wrong"}, id)
		handler.VerifyPasswordHandler(c)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("empty password fails validation", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/password",
			dto.VerifyPasswordRequest{}, id)
		handler.VerifyPasswordHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		mockUseCase.AssertNotCalled(t, "VerifyPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated request yields 401", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/password",
			dto.VerifyPasswordRequest{Password: "the password"}, nil)
		handler.VerifyPasswordHandler(c)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockUseCase.AssertNotCalled(t, "VerifyPassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReauthHandler_VerifyTOTPHandler(t *testing.T) {
	id := &identity.Identity{
		UserID:   uuid.Must(uuid.NewV7()),
		AgencyID: uuid.Must(uuid.NewV7()),
	}

	t.Run("success returns a grant", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		grant := &domain.Grant{Token: "signed-grant", ExpiresIn: 300}
		mockUseCase.On("VerifyTOTP", mock.Anything, id.UserID, "287082").Return(grant, nil)

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/totp",
			dto.VerifyTOTPRequest{Code: "287082"}, id)
		handler.VerifyTOTPHandler(c)

		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("not enrolled yields 422", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		mockUseCase.On("VerifyTOTP", mock.Anything, id.UserID, "287082").
			Return(nil, domain.ErrTOTPNotEnrolled)

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/totp",
			dto.VerifyTOTPRequest{Code: "287082"}, id)
		handler.VerifyTOTPHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("wrong-length code fails validation", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		handler := NewReauthHandler(mockUseCase, testLogger())

		c, recorder := createTestContext(t, http.MethodPost, "/v1/reauth/totp",
			dto.VerifyTOTPRequest{Code: "1234"}, id)
		handler.VerifyTOTPHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		mockUseCase.AssertNotCalled(t, "VerifyTOTP", mock.Anything, mock.Anything, mock.Anything)
	})
}
