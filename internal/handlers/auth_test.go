package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pocket-chat/internal/auth"
	"pocket-chat/internal/mocks"
	"pocket-chat/internal/models"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signup", handler.SignUp)
	r.POST("/auth/signin", handler.SignIn)
	r.POST("/auth/signout", handler.SignOut)
	return r
}

func TestSignUpSuccess(t *testing.T) {
	authSvc := new(mocks.AuthServiceMock)
	router := setupAuthRouter(NewAuthHandler(authSvc))

	authSvc.On("SignUp", mock.Anything, "eve@example.com", "Eve").
		Return(models.User{ID: "user_9", Email: "eve@example.com", DisplayName: "Eve"}, nil).Once()

	body := bytes.NewBufferString(`{"email":"eve@example.com","display_name":"Eve"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "user_9", resp.User.ID)
	authSvc.AssertExpectations(t)
}

func TestSignUpEmailTaken(t *testing.T) {
	authSvc := new(mocks.AuthServiceMock)
	router := setupAuthRouter(NewAuthHandler(authSvc))

	authSvc.On("SignUp", mock.Anything, "alice@example.com", "Alice").
		Return(models.User{}, auth.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","display_name":"Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	authSvc.AssertExpectations(t)
}

func TestSignUpInvalidEmail(t *testing.T) {
	router := setupAuthRouter(NewAuthHandler(new(mocks.AuthServiceMock)))

	body := bytes.NewBufferString(`{"email":"not-an-email","display_name":"Eve"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignInSuccess(t *testing.T) {
	authSvc := new(mocks.AuthServiceMock)
	router := setupAuthRouter(NewAuthHandler(authSvc))

	authSvc.On("SignIn", mock.Anything, "alice@example.com").
		Return(models.User{ID: "user1", Email: "alice@example.com", IsOnline: true}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.User.IsOnline)
	authSvc.AssertExpectations(t)
}

func TestSignInUnknownUser(t *testing.T) {
	authSvc := new(mocks.AuthServiceMock)
	router := setupAuthRouter(NewAuthHandler(authSvc))

	authSvc.On("SignIn", mock.Anything, "ghost@example.com").
		Return(models.User{}, auth.ErrUnknownUser).Once()

	body := bytes.NewBufferString(`{"email":"ghost@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	authSvc.AssertExpectations(t)
}

func TestSignOutSuccess(t *testing.T) {
	authSvc := new(mocks.AuthServiceMock)
	router := setupAuthRouter(NewAuthHandler(authSvc))

	authSvc.On("SignOut", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	authSvc.AssertExpectations(t)
}

func TestSignOutError(t *testing.T) {
	authSvc := new(mocks.AuthServiceMock)
	router := setupAuthRouter(NewAuthHandler(authSvc))

	authSvc.On("SignOut", mock.Anything).Return(assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	authSvc.AssertExpectations(t)
}
