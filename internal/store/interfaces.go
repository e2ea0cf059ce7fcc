package store

import (
	"context"

	"github.com/ndmitriev/coinwatch/models"
)

// AccountRepository is the persistence contract for account records.
//
// Lookup methods return [ErrAccountNotFound] when no record matches; the
// service layer decides whether absence is a normal outcome or an error.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindAccountByID(ctx context.Context, id string) (models.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
	FindAccountByName(ctx context.Context, name string) (models.Account, error)
	UpdateAccount(ctx context.Context, id string, patch AccountPatch) (models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// AccountPatch carries the column-level values of a partial account update.
// Nil pointers leave the stored column untouched. PasswordHash, when set,
// must already be a derived bcrypt value; the repository never hashes.
type AccountPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Description  *string
	Image        *models.ImageRef
}

// Empty reports whether the patch would touch no columns.
func (p AccountPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil &&
		p.Description == nil && p.Image == nil
}
