package domain

import "context"

// PasswordResetMessage carries what the reset email needs. Code is plaintext.
type PasswordResetMessage struct {
	Email          string
	RecipientName  string
	Code           string
	ExpiresMinutes int
	ResetURL       string
}

// RegistrationCodeMessage carries what the signup verification email needs.
type RegistrationCodeMessage struct {
	Email          string
	Code           string
	ExpiresMinutes int
}

// Notifier delivers one-time codes to their owners
type Notifier interface {
	SendPasswordReset(ctx context.Context, msg PasswordResetMessage) error
	SendRegistrationCode(ctx context.Context, msg RegistrationCodeMessage) error
}
