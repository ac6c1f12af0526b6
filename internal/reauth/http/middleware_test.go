package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/isohub/securitycore/internal/identity"
	"github.com/isohub/securitycore/internal/reauth/domain"
)

func performGatedRequest(t *testing.T, mockUseCase *mockReauthUseCase, id *identity.Identity, token string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handlerRan := false
	router := gin.New()
	router.POST("/sensitive", RequireReauth(mockUseCase, testLogger()), func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/sensitive", nil)
	if id != nil {
		req = req.WithContext(identity.WithIdentity(req.Context(), id))
	}
	if token != "" {
		req.Header.Set(ReauthTokenHeader, token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder, &handlerRan
}

func TestRequireReauth(t *testing.T) {
	id := &identity.Identity{
		UserID:   uuid.Must(uuid.NewV7()),
		AgencyID: uuid.Must(uuid.NewV7()),
	}

	t.Run("valid grant is consumed and the handler runs", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		validated := &domain.Validated{UserID: id.UserID, Method: domain.MethodPassword}
		mockUseCase.On("ConsumeReauthToken", mock.Anything, "the-grant", &id.UserID).
			Return(validated, true, nil)

		recorder, handlerRan := performGatedRequest(t, mockUseCase, id, "the-grant")

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.True(t, *handlerRan)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing header yields 401 without touching the usecase", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}

		recorder, handlerRan := performGatedRequest(t, mockUseCase, id, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, *handlerRan)
		mockUseCase.AssertNotCalled(t, "ConsumeReauthToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid token yields 401", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		mockUseCase.On("ConsumeReauthToken", mock.Anything, "bad-grant", &id.UserID).
			Return(nil, false, domain.ErrInvalidReauthToken)

		recorder, handlerRan := performGatedRequest(t, mockUseCase, id, "bad-grant")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, *handlerRan)
	})

	t.Run("lost consumption race yields 401", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}
		validated := &domain.Validated{UserID: id.UserID, Method: domain.MethodPassword}
		mockUseCase.On("ConsumeReauthToken", mock.Anything, "the-grant", &id.UserID).
			Return(validated, false, nil)

		recorder, handlerRan := performGatedRequest(t, mockUseCase, id, "the-grant")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, *handlerRan)
	})

	t.Run("unauthenticated request yields 401", func(t *testing.T) {
		mockUseCase := &mockReauthUseCase{}

		recorder, handlerRan := performGatedRequest(t, mockUseCase, nil, "the-grant")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, *handlerRan)
	})
}
