package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/ndmitriev/coinwatch/models"
)

// psql is the shared squirrel statement builder configured for PostgreSQL
// ($1, $2, ...) placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// accountColumns is the canonical column list scanned into [models.Account].
// Every query that returns account rows must select exactly these columns
// in this order.
var accountColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"description",
	"image_kind",
	"image_url",
	"image_data",
	"created_at",
	"updated_at",
}

// Unique constraint names from the accounts migration; used to attribute a
// unique_violation to a specific column.
const (
	accountsEmailConstraint = "accounts_email_key"
	accountsNameConstraint  = "accounts_name_key"
)

// imageColumnValues splits an optional [models.ImageRef] into the three
// nullable image columns. All three are nil when the reference is absent.
func imageColumnValues(img *models.ImageRef) (kind, url, data any) {
	if img == nil {
		return nil, nil, nil
	}

	return string(img.Kind), img.URL, img.Data
}

func buildInsertAccountQuery(account models.Account) (string, []any, error) {
	imageKind, imageURL, imageData := imageColumnValues(account.Image)

	return psql.Insert(account.TableName()).
		Columns("id", "name", "email", "password_hash", "description", "image_kind", "image_url", "image_data").
		Values(account.ID, account.Name, account.Email, account.PasswordHash, account.Description, imageKind, imageURL, imageData).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
}

func buildSelectAccountQuery(column, value string) (string, []any, error) {
	return psql.Select(accountColumns...).
		From(models.Account{}.TableName()).
		Where(sq.Eq{column: value}).
		ToSql()
}

func buildListAccountsQuery() (string, []any, error) {
	return psql.Select(accountColumns...).
		From(models.Account{}.TableName()).
		OrderBy("created_at").
		ToSql()
}

// buildUpdateAccountQuery assembles a partial UPDATE touching only the
// columns present in patch. The updated_at column always advances; callers
// must reject an empty patch before reaching this point.
func buildUpdateAccountQuery(id string, patch AccountPatch) (string, []any, error) {
	builder := psql.Update(models.Account{}.TableName()).
		Set("updated_at", sq.Expr("now()"))

	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.Email != nil {
		builder = builder.Set("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		builder = builder.Set("password_hash", *patch.PasswordHash)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Image != nil {
		imageKind, imageURL, imageData := imageColumnValues(patch.Image)
		builder = builder.
			Set("image_kind", imageKind).
			Set("image_url", imageURL).
			Set("image_data", imageData)
	}

	return builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
}

func buildDeleteAccountQuery(id string) (string, []any, error) {
	return psql.Delete(models.Account{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func joinColumns() string {
	out := accountColumns[0]
	for _, c := range accountColumns[1:] {
		out += ", " + c
	}
	return out
}
