// File: internal/email/sender.go
package email

import (
	"context"
	"fmt"

	"referme_backend/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender defines the outbound mail operations the application needs.
type Sender interface {
	SendCompanyEmailVerification(ctx context.Context, to, verificationLink string) error
	SendReferralRequestNotice(ctx context.Context, to, posterName, jobseekerName, jobTitle, company string) error
}

type gomailSender struct {
	cfg       *config.Config
	templates *TemplateManager
	dialer    *gomail.Dialer
	logger    *zap.Logger
}

// NewGomailSender creates a Sender backed by an SMTP dialer. When a Google
// OAuth refresh token is configured the dialer authenticates with XOAUTH2,
// otherwise it falls back to plain SMTP credentials.
func NewGomailSender(cfg *config.Config, logger *zap.Logger) (Sender, error) {
	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to build email templates: %w", err)
	}

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if cfg.GoogleOAuthRefreshToken != "" {
		d.Auth = newXOAuth2Auth(cfg)
	}

	return &gomailSender{
		cfg:       cfg,
		templates: tm,
		dialer:    d,
		logger:    logger.Named("email_sender"),
	}, nil
}

func (s *gomailSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.EmailFromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// SendCompanyEmailVerification mails the work-email verification link.
func (s *gomailSender) SendCompanyEmailVerification(ctx context.Context, to, verificationLink string) error {
	body, err := s.templates.Render("company_email_verification", CompanyEmailVerificationData{
		VerificationLink: verificationLink,
	})
	if err != nil {
		return err
	}

	if err := s.send(to, "Verify your company email on ReferMe", body); err != nil {
		s.logger.Error("Company email verification mail failed",
			zap.String("to", to), zap.Error(err))
		return err
	}
	s.logger.Info("Company email verification mail sent", zap.String("to", to))
	return nil
}

// SendReferralRequestNotice mails the job poster about a new referral request.
func (s *gomailSender) SendReferralRequestNotice(ctx context.Context, to, posterName, jobseekerName, jobTitle, company string) error {
	body, err := s.templates.Render("referral_request", ReferralRequestData{
		PosterName:    posterName,
		JobseekerName: jobseekerName,
		JobTitle:      jobTitle,
		Company:       company,
	})
	if err != nil {
		return err
	}

	if err := s.send(to, fmt.Sprintf("New referral request for %s", jobTitle), body); err != nil {
		s.logger.Error("Referral request notice mail failed",
			zap.String("to", to), zap.Error(err))
		return err
	}
	s.logger.Info("Referral request notice mail sent", zap.String("to", to))
	return nil
}
