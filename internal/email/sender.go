// Package email delivers outbound mail for the notification module. The
// SMTP implementation renders HTML templates and sends via go-mail; the
// noop implementation logs instead, for deployments without SMTP.
package email

import (
	"context"

	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
)

// Sender delivers outbound email.
type Sender interface {
	// SendOwnerMail delivers an agent-authored message to a property owner.
	SendOwnerMail(ctx context.Context, toEmail, ownerName, subject, body string) error
}

// NewSender builds the configured sender: SMTP when email is enabled,
// otherwise the logging noop.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		return NewNoopSender(log)
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender logs instead of sending. Used when email is disabled.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

// SendOwnerMail logs the mail that would have been sent.
func (s *NoopSender) SendOwnerMail(_ context.Context, toEmail, _, subject, _ string) error {
	s.log.Info("email disabled, owner mail not sent", "to", toEmail, "subject", subject)
	return nil
}
