package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ndmitriev/coinwatch/internal/service"
	"github.com/ndmitriev/coinwatch/internal/store"
	"github.com/ndmitriev/coinwatch/models"
)

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.accounts.EXPECT().CreateAccount(gomock.Any(), models.RegisterRequest{
		Name:     "john",
		Email:    "john@example.com",
		Password: "secret",
	}).Return(models.Account{
		ID:           "id-1",
		Name:         "john",
		Email:        "john@example.com",
		PasswordHash: "$2a$10$secret-hash",
	}, nil)

	body := `{"name":"john","email":"john@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"id-1"`)
	assert.NotContains(t, rec.Body.String(), "secret-hash", "password hash must never be serialized")
}

func TestRegister_InvalidJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(t, ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not-json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "email taken", serviceErr: store.ErrEmailAlreadyExists, wantStatus: http.StatusBadRequest},
		{name: "name taken", serviceErr: store.ErrNameAlreadyExists, wantStatus: http.StatusBadRequest},
		{name: "missing credentials", serviceErr: service.ErrMissingCredentials, wantStatus: http.StatusBadRequest},
		{name: "invalid image", serviceErr: service.ErrInvalidImageReference, wantStatus: http.StatusBadRequest},
		{name: "store failure", serviceErr: store.ErrExecutingQuery, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mocks := newTestRouter(t, ctrl)
			mocks.accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
				Return(models.Account{}, tt.serviceErr)

			body := `{"name":"john","email":"john@example.com","password":"secret"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.accounts.EXPECT().Authenticate(gomock.Any(), "john@example.com", "secret").
		Return(models.AuthResult{
			Account: models.Account{ID: "id-1", Email: "john@example.com"},
			Token:   "signed-jwt",
		}, nil)

	body := `{"email":"john@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed-jwt", rec.Header().Get("Authorization"))

	var result models.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "signed-jwt", result.Token)
	assert.Equal(t, "id-1", result.Account.ID)
}

func TestLogin_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "unknown email", serviceErr: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "missing credentials", serviceErr: service.ErrMissingCredentials, wantStatus: http.StatusBadRequest},
		{name: "token creation failed", serviceErr: service.ErrTokenCreationFailed, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mocks := newTestRouter(t, ctrl)
			mocks.accounts.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(models.AuthResult{}, tt.serviceErr)

			body := `{"email":"john@example.com","password":"secret"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
