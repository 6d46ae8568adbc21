package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmationEmailData holds data for the paid registration confirmation.
type RegistrationConfirmationEmailData struct {
	Email       string
	FullName    string
	TicketType  TicketType
	GroupSize   int
	Description string
}

// EmailVerificationData holds data for the email verification message.
type EmailVerificationData struct {
	Email           string
	FullName        string
	VerificationURL string
	ExpiresInHours  int
}

// GroupMemberInviteEmailData holds data for a group member's invitation.
type GroupMemberInviteEmailData struct {
	Email           string
	LeadName        string
	LeadEmail       string
	Organization    string
	VerificationURL string
	ExpiresInHours  int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
	SendEmailVerification(ctx context.Context, data *EmailVerificationData) error
	SendGroupMemberInvite(ctx context.Context, data *GroupMemberInviteEmailData) error
}
