package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"go-ems/internal/config"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxSendAttempts = 3

var subjects = map[string]string{
	TemplateWelcome:        "Welcome to the Employee Management System",
	TemplateLeaveRequested: "New leave request awaiting review",
	TemplateLeaveDecided:   "Your leave request has been reviewed",
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSink renders the embedded HTML templates and sends them over SMTP.
type SMTPSink struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
	logger    *zap.Logger
}

func NewSMTPSink(cfg config.SMTPConfig, logger ...*zap.Logger) (*SMTPSink, error) {
	tmpl, err := template.New("notification").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}

	l := zap.L().Named("notification.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.smtp")
	}

	return &SMTPSink{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
		logger:    l,
	}, nil
}

func (s *SMTPSink) Notify(ctx context.Context, recipient, tmpl string, payload map[string]string) error {
	subject, ok := subjects[tmpl]
	if !ok {
		return fmt.Errorf("unknown notification template %q", tmpl)
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, tmpl+".html", payload); err != nil {
		return fmt.Errorf("execute template %s: %w", tmpl, err)
	}

	if !s.cfg.Enabled() {
		s.logger.Warn("smtp not configured, skipping notification",
			zap.String("to", recipient),
			zap.String("template", tmpl),
		)
		return nil
	}

	return s.sendHTML(ctx, recipient, subject, body.String())
}

func (s *SMTPSink) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	headers := fmt.Sprintf("From: %s\r\n", s.cfg.From)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		err := s.send(addr, auth, s.cfg.From, []string{to}, message)
		if err == nil {
			s.logger.Info("notification sent", zap.String("to", to), zap.String("subject", subject), zap.Int("attempt", attempt))
			return nil
		}

		lastErr = err
		s.logger.Warn("send notification failed",
			zap.String("to", to),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxSendAttempts),
			zap.Error(err),
		)

		if attempt < maxSendAttempts {
			// 1x, 2x, 4x backoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff * time.Duration(1<<(attempt-1))):
			}
		}
	}

	return fmt.Errorf("send notification after %d attempts: %w", maxSendAttempts, lastErr)
}
