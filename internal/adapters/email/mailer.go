package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"conferenceregistration/internal/domain"
)

// Mail providers accepted by NewMailer.
const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

// SESConfig holds the static credentials used to reach AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig selects and configures the outbound mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
	Logger      *slog.Logger
}

// NewMailer returns an SES mailer for provider "ses". Empty, "noop" and unknown
// providers get a mailer that only logs, so local runs never send real mail.
func NewMailer(cfg MailerConfig) (domain.Mailer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Provider {
	case ProviderSES:
		if cfg.FromAddress == "" {
			return nil, errors.New("ses mailer: EMAIL_FROM_ADDRESS is required")
		}
		if cfg.SES.InsecureSkipVerify {
			logger.Warn("SES TLS verification disabled; development only")
		}
		return &sesMailer{
			client:      newSESClient(cfg.SES),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
			logger:      logger,
		}, nil
	case ProviderNoop, "":
	default:
		logger.Warn("unknown email provider, falling back to noop", "provider", cfg.Provider)
	}
	return &noopMailer{logger: logger}, nil
}

func newSESClient(cfg SESConfig) *ses.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		},
	}
	return ses.NewFromConfig(aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		HTTPClient: &http.Client{Transport: transport},
	})
}

// sesAPI is the part of the SES client the mailer calls.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesMailer struct {
	client      sesAPI
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (m *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	body := &types.Body{}
	if html != "" {
		body.Html = utf8(html)
	}
	if text != "" {
		body.Text = utf8(text)
	}
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(m.source()),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message:     &types.Message{Subject: utf8(subject), Body: body},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	m.logger.DebugContext(ctx, "email sent", "message_id", aws.ToString(out.MessageId), "subject", subject)
	return nil
}

// source formats the sender as "Name <address>" when a display name is configured.
func (m *sesMailer) source() string {
	if m.fromName == "" {
		return m.fromAddress
	}
	return (&mail.Address{Name: m.fromName, Address: m.fromAddress}).String()
}

func utf8(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

type noopMailer struct {
	logger *slog.Logger
}

func (m *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m.logger.InfoContext(ctx, "email not sent (noop provider)", "to", to, "subject", subject)
	return nil
}
