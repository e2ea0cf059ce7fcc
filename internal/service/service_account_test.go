package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/mock"
	"github.com/ndmitriev/coinwatch/internal/store"
	"github.com/ndmitriev/coinwatch/internal/utils"
	"github.com/ndmitriev/coinwatch/models"
)

const testAccountID = "0190f6f2-0000-7000-8000-00000000abcd"

// fixedIDGen makes account IDs deterministic in tests.
type fixedIDGen struct {
	id string
}

func (g fixedIDGen) Generate() string { return g.id }

func newTestAccountSvc(t *testing.T, ctrl *gomock.Controller) (*accountService, *mock.MockAccountRepository) {
	t.Helper()
	repo := mock.NewMockAccountRepository(ctrl)

	cfg := config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "coinwatch",
		TokenDuration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}

	svc := NewAccountService(repo, cfg, logger.Nop()).(*accountService)
	svc.ids = fixedIDGen{id: testAccountID}

	return svc, repo
}

func notFound() (models.Account, error) {
	return models.Account{}, store.ErrAccountNotFound
}

// ── CreateAccount ────────────────────────────────────────────────────────────

func TestAccountService_CreateAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	req := models.RegisterRequest{
		Name:        "John",
		Email:       "John@Example.COM ",
		Password:    "super-secret",
		Description: "first user",
	}

	gomock.InOrder(
		repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").Return(notFound()),
		repo.EXPECT().FindAccountByName(ctx, "john").Return(notFound()),
		repo.EXPECT().CreateAccount(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, a models.Account) (models.Account, error) {
				assert.Equal(t, testAccountID, a.ID)
				assert.Equal(t, "john", a.Name)
				assert.Equal(t, "john@example.com", a.Email)
				assert.True(t, utils.VerifyPassword("super-secret", a.PasswordHash))
				assert.NotEqual(t, "super-secret", a.PasswordHash)
				return a, nil
			},
		),
	)

	created, err := svc.CreateAccount(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, testAccountID, created.ID)
	assert.Equal(t, "john@example.com", created.Email)
}

func TestAccountService_CreateAccount_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{name: "no name", req: models.RegisterRequest{Email: "a@b.c", Password: "p"}},
		{name: "no email", req: models.RegisterRequest{Name: "a", Password: "p"}},
		{name: "no password", req: models.RegisterRequest{Name: "a", Email: "a@b.c"}},
		{name: "blank name", req: models.RegisterRequest{Name: "   ", Email: "a@b.c", Password: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAccount(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrMissingCredentials)
		})
	}
}

func TestAccountService_CreateAccount_InvalidImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	req := models.RegisterRequest{
		Name:     "john",
		Email:    "john@example.com",
		Password: "p",
		Image:    &models.ImageRef{Kind: models.ImageKindURL},
	}

	_, err := svc.CreateAccount(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidImageReference)
}

func TestAccountService_CreateAccount_EmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").
		Return(models.Account{ID: "other-id", Email: "john@example.com"}, nil)

	_, err := svc.CreateAccount(ctx, models.RegisterRequest{
		Name: "john", Email: "john@example.com", Password: "p",
	})
	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

func TestAccountService_CreateAccount_NameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").Return(notFound()),
		repo.EXPECT().FindAccountByName(ctx, "john").
			Return(models.Account{ID: "other-id", Name: "john"}, nil),
	)

	_, err := svc.CreateAccount(ctx, models.RegisterRequest{
		Name: "John", Email: "john@example.com", Password: "p",
	})
	assert.ErrorIs(t, err, store.ErrNameAlreadyExists)
}

func TestAccountService_CreateAccount_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByEmail(ctx, gomock.Any()).
		Return(models.Account{}, store.ErrExecutingQuery)

	_, err := svc.CreateAccount(ctx, models.RegisterRequest{
		Name: "john", Email: "john@example.com", Password: "p",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrExecutingQuery)
}

// ── Authenticate ─────────────────────────────────────────────────────────────

func TestAccountService_Authenticate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	hash, err := utils.HashPassword("super-secret", bcrypt.MinCost)
	require.NoError(t, err)

	repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").Return(models.Account{
		ID:           testAccountID,
		Name:         "john",
		Email:        "john@example.com",
		PasswordHash: hash,
	}, nil)

	result, err := svc.Authenticate(ctx, "John@Example.com", "super-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, testAccountID, result.Account.ID)
	assert.Empty(t, result.Account.PasswordHash, "password hash must not leave the service")

	token, err := svc.ParseToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, testAccountID, token.AccountID)
}

func TestAccountService_Authenticate_MissingCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	_, err := svc.Authenticate(context.Background(), "", "pass")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Authenticate(context.Background(), "john@example.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAccountService_Authenticate_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByEmail(ctx, "ghost@example.com").Return(notFound())

	_, err := svc.Authenticate(ctx, "ghost@example.com", "pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Authenticate_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	hash, err := utils.HashPassword("right-password", bcrypt.MinCost)
	require.NoError(t, err)

	repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").
		Return(models.Account{ID: testAccountID, PasswordHash: hash}, nil)

	_, err = svc.Authenticate(ctx, "john@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Authenticate_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").
		Return(models.Account{}, store.ErrExecutingQuery)

	_, err := svc.Authenticate(ctx, "john@example.com", "pass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// ── FindBy* ──────────────────────────────────────────────────────────────────

func TestAccountService_FindByID_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByID(ctx, testAccountID).
		Return(models.Account{ID: testAccountID}, nil)

	account, found, err := svc.FindByID(ctx, testAccountID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testAccountID, account.ID)
}

func TestAccountService_FindByID_Absent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByID(ctx, "missing-id").Return(notFound())

	account, found, err := svc.FindByID(ctx, "missing-id")
	require.NoError(t, err, "absence is not an error for search operations")
	assert.False(t, found)
	assert.Empty(t, account.ID)
}

func TestAccountService_FindByEmail_NormalizesCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByEmail(ctx, "john@example.com").
		Return(models.Account{ID: testAccountID, Email: "john@example.com"}, nil)

	_, found, err := svc.FindByEmail(ctx, " John@EXAMPLE.com ")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAccountService_FindByName_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByName(ctx, "john").
		Return(models.Account{}, store.ErrExecutingQuery)

	_, found, err := svc.FindByName(ctx, "john")
	require.Error(t, err)
	assert.False(t, found)
}

// ── UpdateAccount ────────────────────────────────────────────────────────────

func TestAccountService_UpdateAccount_EmptyUpdateReturnsCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	current := models.Account{ID: testAccountID, Name: "john"}
	repo.EXPECT().FindAccountByID(ctx, testAccountID).Return(current, nil)

	got, err := svc.UpdateAccount(ctx, testAccountID, models.AccountUpdate{})
	require.NoError(t, err)
	assert.Equal(t, current, got)
}

func TestAccountService_UpdateAccount_PartialName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	newName := "Renamed"
	gomock.InOrder(
		repo.EXPECT().FindAccountByName(ctx, "renamed").Return(notFound()),
		repo.EXPECT().UpdateAccount(ctx, testAccountID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, patch store.AccountPatch) (models.Account, error) {
				require.NotNil(t, patch.Name)
				assert.Equal(t, "renamed", *patch.Name)
				assert.Nil(t, patch.Email)
				assert.Nil(t, patch.PasswordHash)
				assert.Nil(t, patch.Description)
				assert.Nil(t, patch.Image)
				return models.Account{ID: testAccountID, Name: *patch.Name}, nil
			},
		),
	)

	updated, err := svc.UpdateAccount(ctx, testAccountID, models.AccountUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestAccountService_UpdateAccount_EmailInUseByOther(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	email := "taken@example.com"
	repo.EXPECT().FindAccountByEmail(ctx, email).
		Return(models.Account{ID: "other-id", Email: email}, nil)

	_, err := svc.UpdateAccount(ctx, testAccountID, models.AccountUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestAccountService_UpdateAccount_EmailUnchangedForSelf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	email := "john@example.com"
	gomock.InOrder(
		repo.EXPECT().FindAccountByEmail(ctx, email).
			Return(models.Account{ID: testAccountID, Email: email}, nil),
		repo.EXPECT().UpdateAccount(ctx, testAccountID, gomock.Any()).
			Return(models.Account{ID: testAccountID, Email: email}, nil),
	)

	_, err := svc.UpdateAccount(ctx, testAccountID, models.AccountUpdate{Email: &email})
	require.NoError(t, err)
}

func TestAccountService_UpdateAccount_RehashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	password := "new-password"
	repo.EXPECT().UpdateAccount(ctx, testAccountID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, patch store.AccountPatch) (models.Account, error) {
			require.NotNil(t, patch.PasswordHash)
			assert.True(t, utils.VerifyPassword(password, *patch.PasswordHash))
			return models.Account{ID: testAccountID}, nil
		},
	)

	_, err := svc.UpdateAccount(ctx, testAccountID, models.AccountUpdate{Password: &password})
	require.NoError(t, err)
}

func TestAccountService_UpdateAccount_InvalidImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	_, err := svc.UpdateAccount(context.Background(), testAccountID, models.AccountUpdate{
		Image: &models.ImageRef{Kind: "bogus"},
	})
	assert.ErrorIs(t, err, ErrInvalidImageReference)
}

func TestAccountService_UpdateAccount_EmptySuppliedField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	empty := ""
	_, err := svc.UpdateAccount(context.Background(), testAccountID, models.AccountUpdate{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAccountService_UpdateAccount_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	desc := "new description"
	repo.EXPECT().UpdateAccount(ctx, "missing-id", gomock.Any()).
		Return(models.Account{}, store.ErrAccountNotFound)

	_, err := svc.UpdateAccount(ctx, "missing-id", models.AccountUpdate{Description: &desc})
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

// ── DeleteAccount ────────────────────────────────────────────────────────────

func TestAccountService_DeleteAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindAccountByID(ctx, testAccountID).
			Return(models.Account{ID: testAccountID}, nil),
		repo.EXPECT().DeleteAccount(ctx, testAccountID).Return(nil),
	)

	require.NoError(t, svc.DeleteAccount(ctx, testAccountID))
}

func TestAccountService_DeleteAccount_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindAccountByID(ctx, "missing-id").Return(notFound())

	err := svc.DeleteAccount(ctx, "missing-id")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountService_DeleteAccount_VanishedBetweenLookupAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindAccountByID(ctx, testAccountID).
			Return(models.Account{ID: testAccountID}, nil),
		repo.EXPECT().DeleteAccount(ctx, testAccountID).Return(store.ErrAccountNotFound),
	)

	err := svc.DeleteAccount(ctx, testAccountID)
	assert.ErrorIs(t, err, ErrDeletionFailed)
}

// ── ListAccounts / ParseToken ────────────────────────────────────────────────

func TestAccountService_ListAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	accounts := []models.Account{{ID: "id-1"}, {ID: "id-2"}}
	repo.EXPECT().ListAccounts(ctx).Return(accounts, nil)

	got, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAccountService_ListAccounts_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newTestAccountSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().ListAccounts(ctx).Return(nil, errors.New("connection reset"))

	_, err := svc.ListAccounts(ctx)
	require.Error(t, err)
}

func TestAccountService_ParseToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	_, err := svc.ParseToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAccountService_ParseToken_WrongIssuer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAccountSvc(t, ctrl)

	foreign, err := utils.GenerateJWTToken("someone-else", testAccountID, time.Hour, "test-sign-key")
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), foreign.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
