// Package notify delivers password reset links to users.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"betledger/internal/config"
)

// Notifier delivers a password reset link to an account holder.
type Notifier interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error
}

// New builds the notifier selected by cfg.Provider. An empty provider
// returns a nil Notifier and the caller falls back to logging the link.
func New(ctx context.Context, cfg config.EmailConfig, logger *slog.Logger) (Notifier, error) {
	switch cfg.Provider {
	case "", "log":
		return nil, nil
	case "ses":
		return NewSESNotifier(ctx, cfg.AWSRegion, cfg.From, cfg.FromName, logger)
	case "smtp":
		return NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			TLS:      cfg.SMTPTLS,
			From:     cfg.From,
			FromName: cfg.FromName,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

const resetSubject = "Reset your Bet Tracker password"

// resetBodies renders the HTML and plain text bodies of a reset email.
func resetBodies(toName, resetLink string) (htmlBody, textBody string) {
	name := toName
	if name == "" {
		name = "there"
	}

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #2e7d32; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your Bet Tracker account.</p>
		<p style="text-align: center;"><a href="%s" class="button">Reset Password</a></p>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
		<p><strong>This link will expire in 1 hour.</strong></p>
		<p>If you didn't request a password reset, you can safely ignore this email.</p>
		<div class="footer">This is an automated email from Bet Tracker. Please do not reply.</div>
	</div>
</body>
</html>
`, html.EscapeString(name), html.EscapeString(resetLink), html.EscapeString(resetLink))

	textBody = fmt.Sprintf(`Hi %s,

We received a request to reset the password for your Bet Tracker account.

Open the link below to choose a new password:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.
`, name, resetLink)

	return htmlBody, textBody
}
