package services

import (
	"context"
	"errors"
	"testing"

	"conferenceregistration/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

type fakeRenderer struct {
	lastTemplate string
	err          error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.lastTemplate = name
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject:" + name, "<p>" + name + "</p>", name, nil
}

func TestEmailService(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		send         func(domain.EmailService) error
		wantTemplate string
		wantTo       string
	}{
		{
			name: "confirmation",
			send: func(s domain.EmailService) error {
				return s.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{Email: "ada@example.com"})
			},
			wantTemplate: "registration_confirmation",
			wantTo:       "ada@example.com",
		},
		{
			name: "verification",
			send: func(s domain.EmailService) error {
				return s.SendEmailVerification(ctx, &domain.EmailVerificationData{Email: "ada@example.com"})
			},
			wantTemplate: "email_verification",
			wantTo:       "ada@example.com",
		},
		{
			name: "group invite",
			send: func(s domain.EmailService) error {
				return s.SendGroupMemberInvite(ctx, &domain.GroupMemberInviteEmailData{Email: "m@uni.edu"})
			},
			wantTemplate: "group_member_invite",
			wantTo:       "m@uni.edu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer, renderer := &fakeMailer{}, &fakeRenderer{}
			svc := NewEmailService(mailer, renderer, testLogger)

			require.NoError(t, tt.send(svc))
			assert.Equal(t, tt.wantTemplate, renderer.lastTemplate)
			assert.Equal(t, tt.wantTo, mailer.to)
			assert.Equal(t, "subject:"+tt.wantTemplate, mailer.subject)
		})
	}
}

func TestEmailService_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewEmailService(&fakeMailer{}, &fakeRenderer{err: errors.New("bad template")}, testLogger)
	err := svc.SendEmailVerification(ctx, &domain.EmailVerificationData{Email: "a@b.c"})
	assert.ErrorContains(t, err, "render email_verification")

	svc = NewEmailService(&fakeMailer{err: errors.New("throttled")}, &fakeRenderer{}, testLogger)
	err = svc.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{Email: "a@b.c"})
	assert.ErrorContains(t, err, "send registration_confirmation")

	assert.Error(t, svc.SendGroupMemberInvite(ctx, nil))
}
