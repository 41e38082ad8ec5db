package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      bool
	From     string
	FromName string
}

// SMTPNotifier sends reset emails over SMTP
type SMTPNotifier struct {
	cfg SMTPConfig
	log *slog.Logger
}

func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("SMTP from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	logger.Info("email notifier enabled", "provider", "smtp", "host", cfg.Host, "port", cfg.Port)
	return &SMTPNotifier{cfg: cfg, log: logger}, nil
}

func (s *SMTPNotifier) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	msg, err := s.buildMessage(toEmail, toName, resetLink)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email via SMTP: %w", err)
	}

	s.log.Info("password reset email sent", "provider", "smtp")
	return nil
}

func (s *SMTPNotifier) buildMessage(toEmail, toName, resetLink string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if toName != "" {
		if err := msg.AddToFormat(toName, toEmail); err != nil {
			return nil, fmt.Errorf("setting to address: %w", err)
		}
	} else if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	htmlBody, textBody := resetBodies(toName, resetLink)
	msg.Subject(resetSubject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (s *SMTPNotifier) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// implicit TLS on 465, STARTTLS elsewhere
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}
