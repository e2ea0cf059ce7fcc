package http

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/mock"
	"github.com/ndmitriev/coinwatch/internal/service"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

type testMocks struct {
	accounts *mock.MockAccountService
	market   *mock.MockMarketService
	appInfo  *mock.MockAppInfoService
}

func newTestRouter(t *testing.T, ctrl *gomock.Controller) (*chi.Mux, testMocks) {
	t.Helper()
	return newTestRouterWithPinger(t, ctrl, stubPinger{})
}

func newTestRouterWithPinger(t *testing.T, ctrl *gomock.Controller, pinger Pinger) (*chi.Mux, testMocks) {
	t.Helper()

	mocks := testMocks{
		accounts: mock.NewMockAccountService(ctrl),
		market:   mock.NewMockMarketService(ctrl),
		appInfo:  mock.NewMockAppInfoService(ctrl),
	}

	services := &service.Services{
		AccountService: mocks.accounts,
		MarketService:  mocks.market,
		AppInfoService: mocks.appInfo,
	}

	h := NewHandler(services, pinger, logger.Nop())
	return h.Init(), mocks
}
