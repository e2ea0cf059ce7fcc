package models

// RegisterRequest is the payload accepted by the registration endpoint.
// Password is the plaintext credential supplied by the user; it is hashed
// by the service before anything is persisted.
type RegisterRequest struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	Description string    `json:"description,omitempty"`
	Image       *ImageRef `json:"image,omitempty"`
}

// LoginRequest is the payload accepted by the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult pairs a sanitized account view with a freshly issued token.
// It is created on each successful authentication and has no lifecycle
// beyond the response; the Account's PasswordHash is excluded from JSON
// by the model itself.
type AuthResult struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}
