package domain

import (
	"context"
	"strings"
	"time"
)

// AccountStatus mirrors the single-letter estado column.
type AccountStatus string

const (
	AccountActive   AccountStatus = "A"
	AccountInactive AccountStatus = "I"
)

// Account is the slice of a user row the verification flows need.
type Account struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// DisplayName is used to greet the recipient of a reset email.
func (a *Account) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// AccountRepository looks up and updates user accounts
type AccountRepository interface {
	// FindActiveByEmail finds an active account by normalized email, or ErrAccountNotFound
	FindActiveByEmail(ctx context.Context, email string) (*Account, error)

	// ExistsByEmail reports whether any account, active or not, uses the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdatePassword stores an already hashed credential
	UpdatePassword(ctx context.Context, accountID int64, hashedPassword string) error
}

// CredentialUpdater hashes and stores a new login password.
type CredentialUpdater interface {
	UpdateCredential(ctx context.Context, accountID int64, plainPassword string) error
}
