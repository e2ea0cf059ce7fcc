package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ndmitriev/coinwatch/internal/adapter"
	"github.com/ndmitriev/coinwatch/models"
)

func TestListCoins_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.market.EXPECT().ListCoins(gomock.Any()).Return([]models.Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 64000.5},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/coins/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bitcoin"`)
}

func TestListCoins_ProviderStatuses(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "rate limited", serviceErr: adapter.ErrRateLimited, wantStatus: http.StatusTooManyRequests},
		{name: "provider down", serviceErr: adapter.ErrProviderUnavailable, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mocks := newTestRouter(t, ctrl)
			mocks.market.EXPECT().ListCoins(gomock.Any()).Return(nil, tt.serviceErr)

			req := httptest.NewRequest(http.MethodGet, "/api/coins/", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetCoin_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.market.EXPECT().FindCoinByID(gomock.Any(), "ethereum").
		Return(models.Coin{ID: "ethereum", Symbol: "eth"}, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/coins/ethereum", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"eth"`)
}

func TestGetCoin_Absent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.market.EXPECT().FindCoinByID(gomock.Any(), "dogecoin").
		Return(models.Coin{}, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/coins/dogecoin", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchCoin_BySymbol(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, mocks := newTestRouter(t, ctrl)

	mocks.market.EXPECT().FindCoinBySymbol(gomock.Any(), "btc").
		Return(models.Coin{ID: "bitcoin", Symbol: "btc"}, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/coins/search?symbol=btc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bitcoin"`)
}

func TestSearchCoin_BadParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(t, ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/coins/search?name=Bitcoin&symbol=btc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
