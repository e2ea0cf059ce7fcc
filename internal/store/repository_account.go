package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It handles account creation, lookup, partial update,
// and deletion against the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount reads one row of [accountColumns] into a [models.Account],
// reassembling the optional image reference from its three nullable columns.
func scanAccount(row rowScanner) (models.Account, error) {
	var account models.Account
	var imageKind, imageURL sql.NullString
	var imageData []byte

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Description,
		&imageKind,
		&imageURL,
		&imageData,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return models.Account{}, err
	}

	if imageKind.Valid && imageKind.String != "" {
		account.Image = &models.ImageRef{
			Kind: models.ImageKind(imageKind.String),
			URL:  imageURL.String,
			Data: imageData,
		}
	}

	return account, nil
}

// uniqueViolationError maps a PostgreSQL unique_violation to the sentinel
// matching the violated constraint, falling back to [ErrDuplicateAccount]
// when the constraint name is unrecognised.
func uniqueViolationError(err error) error {
	switch postgresConstraint(err) {
	case accountsEmailConstraint:
		return ErrEmailAlreadyExists
	case accountsNameConstraint:
		return ErrNameAlreadyExists
	default:
		return ErrDuplicateAccount
	}
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with database-assigned timestamps.
//
// The INSERT returns all columns via a RETURNING clause, so the caller
// receives the canonical database representation of the new account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists],
//     [ErrNameAlreadyExists], or [ErrDuplicateAccount] by constraint.
//   - Any other driver-level error → wrapped [ErrExecutingStatement].
//   - Scan failure → wrapped [ErrScanningRow].
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertAccountQuery(account)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: building insert query")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Err(err).Str("email", account.Email).Msg("account already exists")
			return models.Account{}, uniqueViolationError(err)
		}

		if errors.Is(err, sql.ErrNoRows) {
			log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: insert returned no row")
			return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning created account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return created, nil
}

// FindAccountByID retrieves the account with the given canonical identifier.
//
// Returns [ErrAccountNotFound] when no record matches.
func (r *accountRepository) FindAccountByID(ctx context.Context, id string) (models.Account, error) {
	return r.findAccountBy(ctx, "id", id)
}

// FindAccountByEmail retrieves the account with the given e-mail address.
// The caller is responsible for normalizing the value to lowercase.
//
// Returns [ErrAccountNotFound] when no record matches.
func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findAccountBy(ctx, "email", email)
}

// FindAccountByName retrieves the account with the given display name.
// The caller is responsible for normalizing the value to lowercase.
//
// Returns [ErrAccountNotFound] when no record matches.
func (r *accountRepository) FindAccountByName(ctx context.Context, name string) (models.Account, error) {
	return r.findAccountBy(ctx, "name", name)
}

func (r *accountRepository) findAccountBy(ctx context.Context, column, value string) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAccountQuery(column, value)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.findAccountBy").Str("column", column).Msg("error: building select query")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	found, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}

		log.Err(err).Str("func", "*accountRepository.findAccountBy").Str("column", column).Msg("error: scanning found account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// UpdateAccount applies a partial update to the account with the given id
// and returns the resulting record. Only the columns present in patch are
// touched; everything else keeps its stored value.
//
// Error handling:
//   - Empty patch → [ErrNothingToUpdate].
//   - No matching row → [ErrAccountNotFound].
//   - PostgreSQL unique_violation (23505) → constraint-specific sentinel.
func (r *accountRepository) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (models.Account, error) {
	log := logger.FromContext(ctx)

	if patch.Empty() {
		return models.Account{}, ErrNothingToUpdate
	}

	query, args, err := buildUpdateAccountQuery(id, patch)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateAccount").Str("id", id).Msg("error: building update query")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}

		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Err(err).Str("id", id).Msg("update collides with existing account")
			return models.Account{}, uniqueViolationError(err)
		}

		log.Err(err).Str("func", "*accountRepository.UpdateAccount").Str("id", id).Msg("error: scanning updated account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return updated, nil
}

// DeleteAccount removes the account with the given id. Deletion is
// permanent; there is no soft-delete.
//
// Returns [ErrAccountNotFound] when no row was removed, which callers use
// to detect a record that vanished between lookup and delete.
func (r *accountRepository) DeleteAccount(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteAccountQuery(id)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.DeleteAccount").Str("id", id).Msg("error: building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.DeleteAccount").Str("id", id).Msg("error: executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.DeleteAccount").Str("id", id).Msg("error: reading rows affected")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// ListAccounts returns every stored account ordered by creation time.
// The result is a finite snapshot taken at call time.
func (r *accountRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAccountsQuery()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ListAccounts").Msg("error: building list query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ListAccounts").Msg("error: executing list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0, 16)

	for rows.Next() {
		account, scanErr := scanAccount(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*accountRepository.ListAccounts").Msg("error: scanning account row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		accounts = append(accounts, account)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*accountRepository.ListAccounts").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return accounts, nil
}
