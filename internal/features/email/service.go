package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go-chms/internal/config"

	"go.uber.org/zap"
)

type EmailService interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

type EmailServiceImpl struct {
	Config *config.Config
	Repo   *EmailRepository
	Logger *zap.Logger
}

func NewEmailService(cfg *config.Config, repo *EmailRepository, logger *zap.Logger) EmailService {
	return &EmailServiceImpl{
		Config: cfg,
		Repo:   repo,
		Logger: logger,
	}
}

func (s *EmailServiceImpl) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if s.Config.SMTPHost == "" {
		return errors.New("email configuration not found")
	}

	from := s.Config.SMTPFrom
	if from == "" {
		from = s.Config.SMTPUser
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.Config.SMTPUser, s.Config.SMTPPass, s.Config.SMTPHost)
	addr := fmt.Sprintf("%s:%s", s.Config.SMTPHost, s.Config.SMTPPort)

	err := smtp.SendMail(addr, auth, from, to, []byte(msg))

	entry := SentEmail{To: to, Subject: subject, Status: "sent"}
	if err != nil {
		entry.Status = "failed"
		entry.Error = err.Error()
	}
	if logErr := s.Repo.Log(ctx, entry); logErr != nil {
		s.Logger.Warn("failed to log sent email", zap.Error(logErr))
	}

	return err
}
