package models

import "time"

// Account represents one registered user of the service.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type Account struct {
	// ID is the canonical account identifier, a UUIDv7 string assigned by
	// the service at registration time. It is stable for the lifetime of
	// the account and is the sole key for update/delete/find-by-id.
	ID string `json:"id"`

	// Name is the display name of the account.
	// Normalized to lowercase before storage; unique across accounts.
	Name string `json:"name"`

	// Email is the account's e-mail address.
	// Normalized to lowercase before storage; unique across accounts.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the account password.
	// This value MUST be a derived value, never plaintext, and is never
	// serialized to JSON.
	PasswordHash string `json:"-"`

	// Description is optional free-form text supplied by the user.
	Description string `json:"description,omitempty"`

	// Image is an optional reference to the account's avatar.
	// See [ImageRef] for the two accepted representations.
	Image *ImageRef `json:"image,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the most recent profile change.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// ImageKind discriminates the two supported image representations.
type ImageKind string

const (
	// ImageKindURL marks an image stored as an external URL.
	ImageKindURL ImageKind = "url"

	// ImageKindInline marks an image embedded as an encoded payload.
	ImageKindInline ImageKind = "inline"
)

// ImageRef is an explicit variant type for account images.
// Exactly one of URL or Data is meaningful, selected by Kind. Callers must
// resolve any upload into one of these two forms before handing the value
// to the service layer.
type ImageRef struct {
	// Kind selects the active representation: [ImageKindURL] or [ImageKindInline].
	Kind ImageKind `json:"kind"`

	// URL is the external image location. Set only when Kind == ImageKindURL.
	URL string `json:"url,omitempty"`

	// Data is the raw image payload. Encoded as base64 in JSON.
	// Set only when Kind == ImageKindInline.
	Data []byte `json:"data,omitempty"`
}

// Valid reports whether the reference carries a usable representation for
// its declared kind.
func (r *ImageRef) Valid() bool {
	if r == nil {
		return false
	}
	switch r.Kind {
	case ImageKindURL:
		return r.URL != ""
	case ImageKindInline:
		return len(r.Data) > 0
	default:
		return false
	}
}

// AccountUpdate carries a partial set of account fields for an update
// operation. Nil pointers mean "leave the stored value untouched"; only
// non-nil fields are normalized, hashed where applicable, and persisted.
type AccountUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Password    *string   `json:"password,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *ImageRef `json:"image,omitempty"`
}

// Empty reports whether the update contains no fields at all.
func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil &&
		u.Description == nil && u.Image == nil
}
