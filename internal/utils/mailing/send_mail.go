package mailing

import (
	"PantryPal/internal/utils"
	"errors"
	"strconv"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		Send(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		cfg MailConfig
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func (c MailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPEmail != ""
}

func NewMailer(cfg MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(toEmail string, subject string, body string) error {
	if !m.cfg.Enabled() {
		return errors.New("smtp is not configured")
	}

	mailer := gomail.NewMessage()
	if m.cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", m.cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.cfg.SMTPHost,
		port,
		m.cfg.SMTPEmail,
		m.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
