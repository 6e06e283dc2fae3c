package email

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// EmailTemplate renders verification mail and hands it to a Sender. Without
// SMTP credentials it logs the code outside production and fails inside it.
type EmailTemplate struct {
	sender     Sender
	production bool
	logger     *zap.Logger
}

func NewEmailTemplate(cfg *config.Config, logger *zap.Logger) *EmailTemplate {
	var sender Sender
	if cfg.SMTP.Configured() {
		sender = NewSMTPSender(&cfg.SMTP, logger)
	}
	return newEmailTemplate(sender, cfg.IsProduction(), logger)
}

func newEmailTemplate(sender Sender, production bool, logger *zap.Logger) *EmailTemplate {
	return &EmailTemplate{
		sender:     sender,
		production: production,
		logger:     logger,
	}
}

func (s *EmailTemplate) SendPasswordReset(ctx context.Context, msg domain.PasswordResetMessage) error {
	name := msg.RecipientName
	if name == "" {
		name = msg.Email
	}
	view := passwordResetView{
		Name:           name,
		Code:           msg.Code,
		ExpiresMinutes: msg.ExpiresMinutes,
		ResetURL:       msg.ResetURL,
	}

	var text, html bytes.Buffer
	if err := passwordResetText.Execute(&text, view); err != nil {
		return fmt.Errorf("render password reset text: %w", err)
	}
	if err := passwordResetHTML.Execute(&html, view); err != nil {
		return fmt.Errorf("render password reset html: %w", err)
	}

	return s.deliver(ctx, msg.Email, passwordResetSubject, msg.Code, text.String(), html.String())
}

func (s *EmailTemplate) SendRegistrationCode(ctx context.Context, msg domain.RegistrationCodeMessage) error {
	view := registrationCodeView{
		Code:           msg.Code,
		ExpiresMinutes: msg.ExpiresMinutes,
	}

	var text, html bytes.Buffer
	if err := registrationCodeText.Execute(&text, view); err != nil {
		return fmt.Errorf("render registration text: %w", err)
	}
	if err := registrationCodeHTML.Execute(&html, view); err != nil {
		return fmt.Errorf("render registration html: %w", err)
	}

	return s.deliver(ctx, msg.Email, registrationCodeSubject, msg.Code, text.String(), html.String())
}

func (s *EmailTemplate) deliver(ctx context.Context, to, subject, code, text, html string) error {
	if s.sender == nil {
		if s.production {
			s.logger.Error("mail credentials missing, cannot send", zap.String("subject", subject))
			return domain.ErrMailNotConfigured
		}
		// development only
		s.logger.Warn("mail not configured, logging verification code",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("code", code))
		return nil
	}
	return s.sender.Send(ctx, to, subject, text, html)
}
