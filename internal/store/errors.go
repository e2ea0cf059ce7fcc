package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when a query expected to match exactly
	// one account record produces an empty result set.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrEmailAlreadyExists is returned when an insert or update collides
	// with the unique index on the accounts.email column.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNameAlreadyExists is returned when an insert or update collides
	// with the unique index on the accounts.name column.
	ErrNameAlreadyExists = errors.New("name already exists")

	// ErrDuplicateAccount is returned for a unique violation whose
	// constraint cannot be attributed to a specific column.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrNothingToUpdate is returned when an update call carries an empty
	// patch: there are no columns to persist.
	ErrNothingToUpdate = errors.New("no account fields to update")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied. They collectively play the "store unavailable" role at the
// HTTP boundary.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan account row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan account rows")
)
