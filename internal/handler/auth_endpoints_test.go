package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moral-village-server/internal/config"
	serviceMocks "moral-village-server/internal/service/mocks"
	"moral-village-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegisterRouter(authSvc *serviceMocks.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGameHandler(authSvc, nil, &config.Config{}, zap.NewNop())
	router := gin.New()
	router.POST("/api/auth/register", h.register)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterValidation(t *testing.T) {
	t.Run("Rejects short password", func(t *testing.T) {
		authSvc := new(serviceMocks.AuthService)
		router := newRegisterRouter(authSvc)

		rec := postJSON(router, "/api/auth/register", `{"email":"a@b.com","password":"a1b2"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		authSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejects password without digits", func(t *testing.T) {
		authSvc := new(serviceMocks.AuthService)
		router := newRegisterRouter(authSvc)

		rec := postJSON(router, "/api/auth/register", `{"email":"a@b.com","password":"onlyletters"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		authSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejects password without letters", func(t *testing.T) {
		authSvc := new(serviceMocks.AuthService)
		router := newRegisterRouter(authSvc)

		rec := postJSON(router, "/api/auth/register", `{"email":"a@b.com","password":"1234567890"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejects missing fields", func(t *testing.T) {
		authSvc := new(serviceMocks.AuthService)
		router := newRegisterRouter(authSvc)

		rec := postJSON(router, "/api/auth/register", `{"email":"a@b.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Valid request creates the user", func(t *testing.T) {
		authSvc := new(serviceMocks.AuthService)
		router := newRegisterRouter(authSvc)
		userID := uuid.New()
		authSvc.On("Register", mock.Anything, "a@b.com", "password123").
			Return(&models.User{ID: userID, Email: "a@b.com"}, nil).Once()

		rec := postJSON(router, "/api/auth/register", `{"email":"a@b.com","password":"password123"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["id"])
		assert.Equal(t, "a@b.com", body["email"])
		authSvc.AssertExpectations(t)
	})

	t.Run("Duplicate email maps to conflict", func(t *testing.T) {
		authSvc := new(serviceMocks.AuthService)
		router := newRegisterRouter(authSvc)
		authSvc.On("Register", mock.Anything, "a@b.com", "password123").
			Return(nil, models.ErrEmailAlreadyExists).Once()

		rec := postJSON(router, "/api/auth/register", `{"email":"a@b.com","password":"password123"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var errResp models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, models.ErrCodeDuplicateEmail, errResp.Code)
	})
}
