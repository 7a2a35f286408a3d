package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// Mailer sends one transactional email.
type Mailer interface {
	SendEmail(ctx context.Context, toEmail, subject, plain, html string) error
}

// SMSSender sends one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, toPhone, body string) error
}

type sendgridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromEmail   string
	sandboxMode bool
}

func NewSendgridMailer(cfg *config.Config) Mailer {
	return &sendgridMailer{
		client:      sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromName:    cfg.OrganizationName,
		fromEmail:   cfg.LDFlag_SendgridFromEmail,
		sandboxMode: cfg.LDFlag_SendgridSandboxMode,
	}
}

func (m *sendgridMailer) SendEmail(_ context.Context, toEmail, subject, plain, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	if m.sandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := m.client.Send(message)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send email to %s via SendGrid", toEmail)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		utils.Logger.Errorf("SendGrid answered %d for %s: %s", resp.StatusCode, toEmail, resp.Body)
		return fmt.Errorf("%w: sendgrid status %d", utils.ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}

type twilioSMSSender struct {
	client    *twilio.RestClient
	fromPhone string
}

func NewTwilioSMSSender(cfg *config.Config) SMSSender {
	return &twilioSMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		fromPhone: cfg.LDFlag_TwilioFromPhone,
	}
}

func (s *twilioSMSSender) SendSMS(_ context.Context, toPhone, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toPhone)
	params.SetFrom(s.fromPhone)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send SMS to %s via Twilio", toPhone)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}
