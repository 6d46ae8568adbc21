package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferenceregistration/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendRegistrationConfirmation sends the "registration_confirmation" template.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmation data is nil")
	}
	return s.send(ctx, "registration_confirmation", data.Email, data)
}

// SendEmailVerification sends the "email_verification" template.
func (s *emailService) SendEmailVerification(ctx context.Context, data *domain.EmailVerificationData) error {
	if data == nil {
		return fmt.Errorf("email verification data is nil")
	}
	return s.send(ctx, "email_verification", data.Email, data)
}

// SendGroupMemberInvite sends the "group_member_invite" template.
func (s *emailService) SendGroupMemberInvite(ctx context.Context, data *domain.GroupMemberInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("group member invite data is nil")
	}
	return s.send(ctx, "group_member_invite", data.Email, data)
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
