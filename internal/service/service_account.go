package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/store"
	"github.com/ndmitriev/coinwatch/internal/utils"
	"github.com/ndmitriev/coinwatch/models"
)

// idGenerator produces canonical account identifiers.
type idGenerator interface {
	Generate() string
}

// accountService is the concrete implementation of AccountService.
// It handles registration, credential verification, profile maintenance,
// and JWT token lifecycle using an AccountRepository for persistence and
// bcrypt for password hashing.
type accountService struct {
	// accountRepository is the data-access layer used to persist and look up
	// account records.
	accountRepository store.AccountRepository

	// ids assigns the canonical identifier to every newly created account.
	ids idGenerator

	// bcryptCost is the work factor applied when hashing account passwords.
	bcryptCost int

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAccountService constructs a new AccountService wired to the given
// AccountRepository and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAccountService(accountRepository store.AccountRepository, cfg config.App, logger *logger.Logger) AccountService {
	return &accountService{
		accountRepository: accountRepository,
		ids:               utils.NewUUIDGenerator(),
		bcryptCost:        cfg.BcryptCost,
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		logger:            logger,
	}
}

// CreateAccount registers a new account.
//
// Name and email are lowercased before any check or write so that uniqueness
// is case-insensitive. Both are verified to be unused via a lookup before the
// insert; the database unique indexes remain the enforcement backstop when
// two concurrent registrations race past the check. The password is stored
// only as a bcrypt hash.
//
// Returns the persisted account (with a server-assigned ID) or:
//   - ErrMissingCredentials if name, email, or password is empty.
//   - ErrInvalidImageReference if an image is supplied but carries no usable
//     representation for its kind.
//   - store.ErrEmailAlreadyExists / store.ErrNameAlreadyExists if either
//     value is taken.
//   - A wrapped storage error if a repository call fails.
func (a *accountService) CreateAccount(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	name := strings.ToLower(strings.TrimSpace(req.Name))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" || email == "" || req.Password == "" {
		log.Error().Str("name", name).Str("email", email).Msg("registration with empty required fields")
		return models.Account{}, ErrMissingCredentials
	}
	if req.Image != nil && !req.Image.Valid() {
		log.Error().Str("email", email).Msg("registration with malformed image reference")
		return models.Account{}, ErrInvalidImageReference
	}

	if err := a.checkEmailIsFree(ctx, email, ""); err != nil {
		return models.Account{}, err
	}
	if err := a.checkNameIsFree(ctx, name, ""); err != nil {
		return models.Account{}, err
	}

	passwordHash, err := utils.HashPassword(req.Password, a.bcryptCost)
	if err != nil {
		log.Err(err).Str("email", email).Msg("password hashing failed")
		return models.Account{}, fmt.Errorf("password hashing failed: %w", err)
	}

	account := models.Account{
		ID:           a.ids.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Description:  req.Description,
		Image:        req.Image,
	}

	created, err := a.accountRepository.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("email", email).Msg("account creation ended with error")
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	return created, nil
}

// Authenticate verifies the supplied credentials and issues a JWT.
//
// The email is lowercased before lookup. An unknown email and a wrong
// password both surface as ErrInvalidCredentials so the response does not
// reveal whether the account exists.
//
// Returns the authenticated account (password hash cleared) paired with a
// signed token, or:
//   - ErrMissingCredentials if email or password is empty.
//   - ErrInvalidCredentials if the account is unknown or the password is wrong.
//   - ErrTokenCreationFailed (wrapped) if JWT generation fails.
//   - A wrapped storage error if the repository lookup fails.
func (a *accountService) Authenticate(ctx context.Context, email, password string) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Error().Str("email", email).Msg("authentication with empty credentials")
		return models.AuthResult{}, ErrMissingCredentials
	}

	account, err := a.accountRepository.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Error().Str("email", email).Msg("authentication for unknown email")
			return models.AuthResult{}, ErrInvalidCredentials
		}
		log.Err(err).Str("email", email).Msg("account search by email failed")
		return models.AuthResult{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if !utils.VerifyPassword(password, account.PasswordHash) {
		log.Error().Str("id", account.ID).Str("email", email).Msg("wrong password")
		return models.AuthResult{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, account.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("id", account.ID).Msg("token creation failed")
		return models.AuthResult{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	account.PasswordHash = ""
	return models.AuthResult{Account: account, Token: token.SignedString}, nil
}

// FindByID looks up an account by its canonical identifier.
// Absence is reported as (zero, false, nil), never as an error.
func (a *accountService) FindByID(ctx context.Context, id string) (models.Account, bool, error) {
	if id == "" {
		return models.Account{}, false, ErrInvalidDataProvided
	}
	return a.findBy(ctx, func(ctx context.Context) (models.Account, error) {
		return a.accountRepository.FindAccountByID(ctx, id)
	})
}

// FindByEmail looks up an account by email, lowercased before the query.
// Absence is reported as (zero, false, nil), never as an error.
func (a *accountService) FindByEmail(ctx context.Context, email string) (models.Account, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.Account{}, false, ErrInvalidDataProvided
	}
	return a.findBy(ctx, func(ctx context.Context) (models.Account, error) {
		return a.accountRepository.FindAccountByEmail(ctx, email)
	})
}

// FindByName looks up an account by display name, lowercased before the query.
// Absence is reported as (zero, false, nil), never as an error.
func (a *accountService) FindByName(ctx context.Context, name string) (models.Account, bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return models.Account{}, false, ErrInvalidDataProvided
	}
	return a.findBy(ctx, func(ctx context.Context) (models.Account, error) {
		return a.accountRepository.FindAccountByName(ctx, name)
	})
}

func (a *accountService) findBy(ctx context.Context, lookup func(context.Context) (models.Account, error)) (models.Account, bool, error) {
	account, err := lookup(ctx)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.Account{}, false, nil
		}
		logger.FromContext(ctx).Err(err).Msg("account lookup failed")
		return models.Account{}, false, fmt.Errorf("account lookup failed: %w", err)
	}
	return account, true, nil
}

// UpdateAccount applies a partial profile update to the account with the
// given id. Only non-nil fields of update are touched; name and email are
// lowercased, a new password is re-hashed, and an omitted image leaves the
// stored one intact. An empty update is a no-op that returns the current
// record.
//
// Returns the updated account or:
//   - ErrInvalidDataProvided if the id, or a supplied name/email/password,
//     is empty.
//   - ErrInvalidImageReference if a supplied image is malformed.
//   - ErrEmailInUse / store.ErrNameAlreadyExists if the new value belongs to
//     a different account.
//   - store.ErrAccountNotFound (wrapped) if the account does not exist.
//   - A wrapped storage error if a repository call fails.
func (a *accountService) UpdateAccount(ctx context.Context, id string, update models.AccountUpdate) (models.Account, error) {
	log := logger.FromContext(ctx)

	if id == "" {
		return models.Account{}, ErrInvalidDataProvided
	}
	if update.Empty() {
		current, err := a.accountRepository.FindAccountByID(ctx, id)
		if err != nil {
			log.Err(err).Str("id", id).Msg("account lookup for empty update failed")
			return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
		}
		return current, nil
	}

	patch, err := a.buildPatch(ctx, id, update)
	if err != nil {
		return models.Account{}, err
	}

	updated, err := a.accountRepository.UpdateAccount(ctx, id, patch)
	if err != nil {
		log.Err(err).Str("id", id).Msg("account update ended with error")
		return models.Account{}, fmt.Errorf("account update ended with error: %w", err)
	}

	return updated, nil
}

// buildPatch normalizes and validates the supplied update fields and runs
// the uniqueness pre-checks for a changed name or email.
func (a *accountService) buildPatch(ctx context.Context, id string, update models.AccountUpdate) (store.AccountPatch, error) {
	log := logger.FromContext(ctx)
	var patch store.AccountPatch

	if update.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*update.Name))
		if name == "" {
			return store.AccountPatch{}, ErrInvalidDataProvided
		}
		if err := a.checkNameIsFree(ctx, name, id); err != nil {
			return store.AccountPatch{}, err
		}
		patch.Name = &name
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email == "" {
			return store.AccountPatch{}, ErrInvalidDataProvided
		}
		if err := a.checkEmailIsFree(ctx, email, id); err != nil {
			return store.AccountPatch{}, err
		}
		patch.Email = &email
	}

	if update.Password != nil {
		if *update.Password == "" {
			return store.AccountPatch{}, ErrInvalidDataProvided
		}
		hash, err := utils.HashPassword(*update.Password, a.bcryptCost)
		if err != nil {
			log.Err(err).Str("id", id).Msg("password hashing failed")
			return store.AccountPatch{}, fmt.Errorf("password hashing failed: %w", err)
		}
		patch.PasswordHash = &hash
	}

	if update.Description != nil {
		patch.Description = update.Description
	}

	if update.Image != nil {
		if !update.Image.Valid() {
			return store.AccountPatch{}, ErrInvalidImageReference
		}
		patch.Image = update.Image
	}

	return patch, nil
}

// checkEmailIsFree fails when the email belongs to an account other than
// selfID. Pass an empty selfID during registration.
func (a *accountService) checkEmailIsFree(ctx context.Context, email, selfID string) error {
	existing, err := a.accountRepository.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("email uniqueness check failed: %w", err)
	}
	if existing.ID == selfID {
		return nil
	}
	if selfID == "" {
		return store.ErrEmailAlreadyExists
	}
	return ErrEmailInUse
}

// checkNameIsFree fails when the name belongs to an account other than
// selfID. Pass an empty selfID during registration.
func (a *accountService) checkNameIsFree(ctx context.Context, name, selfID string) error {
	existing, err := a.accountRepository.FindAccountByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("name uniqueness check failed: %w", err)
	}
	if existing.ID == selfID {
		return nil
	}
	return store.ErrNameAlreadyExists
}

// DeleteAccount permanently removes the account with the given id.
// Deletion is terminal; there is no soft-delete.
//
// Returns nil on success or:
//   - store.ErrAccountNotFound (wrapped) if the account does not exist.
//   - ErrDeletionFailed if the record vanished between the existence check
//     and the delete, i.e. the store reports that nothing was removed.
//   - A wrapped storage error if a repository call fails.
func (a *accountService) DeleteAccount(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if id == "" {
		return ErrInvalidDataProvided
	}

	if _, err := a.accountRepository.FindAccountByID(ctx, id); err != nil {
		log.Err(err).Str("id", id).Msg("account lookup before deletion failed")
		return fmt.Errorf("account lookup before deletion failed: %w", err)
	}

	if err := a.accountRepository.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Err(err).Str("id", id).Msg("account vanished before deletion")
			return fmt.Errorf("%w: %w", ErrDeletionFailed, err)
		}
		log.Err(err).Str("id", id).Msg("account deletion ended with error")
		return fmt.Errorf("account deletion ended with error: %w", err)
	}

	return nil
}

// ListAccounts returns all registered accounts ordered by creation time.
func (a *accountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := a.accountRepository.ListAccounts(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("account listing ended with error")
		return nil, fmt.Errorf("account listing ended with error: %w", err)
	}
	return accounts, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature
// and the issuer claim. Any validation failure (expired, wrong issuer,
// malformed) is normalised to ErrTokenIsExpiredOrInvalid so that callers do
// not need to inspect low-level JWT errors.
func (a *accountService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
