package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ndmitriev/coinwatch/internal/service"
	"github.com/ndmitriev/coinwatch/models"
)

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(t, ctrl)

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/id-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(t, ctrl)

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/id-1", nil)
	req.Header.Set("Authorization", "Bearer")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.accounts.EXPECT().ParseToken(gomock.Any(), "expired-token").
		Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/id-1", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ValidTokenPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.accounts.EXPECT().ParseToken(gomock.Any(), "valid-token").
		Return(models.Token{AccountID: "id-1"}, nil)
	mocks.accounts.EXPECT().DeleteAccount(gomock.Any(), "id-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/id-1", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
