package service

import (
	"context"

	"github.com/ndmitriev/coinwatch/models"
)

// AccountService is the account lifecycle contract: registration,
// authentication, lookup, update, and deletion.
//
// FindBy* methods report absence through the boolean result, not an error;
// "not found" is a normal outcome for a search. Update, delete, and
// authenticate treat absence as a named error because the caller expected
// the account to exist.
type AccountService interface {
	CreateAccount(ctx context.Context, req models.RegisterRequest) (models.Account, error)
	Authenticate(ctx context.Context, email, password string) (models.AuthResult, error)

	FindByID(ctx context.Context, id string) (models.Account, bool, error)
	FindByEmail(ctx context.Context, email string) (models.Account, bool, error)
	FindByName(ctx context.Context, name string) (models.Account, bool, error)

	UpdateAccount(ctx context.Context, id string, update models.AccountUpdate) (models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context) ([]models.Account, error)

	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// MarketService exposes cryptocurrency quotes fetched from the external
// market-data provider. Narrow lookups follow the same found/absent
// convention as AccountService.FindBy*.
type MarketService interface {
	ListCoins(ctx context.Context) ([]models.Coin, error)

	FindCoinByID(ctx context.Context, id string) (models.Coin, bool, error)
	FindCoinByName(ctx context.Context, name string) (models.Coin, bool, error)
	FindCoinBySymbol(ctx context.Context, symbol string) (models.Coin, bool, error)
}

// AppInfoService reports application metadata such as the running version.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
