package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/manongfatu/dreamteamfinance/internal/config"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// ErrEmailNotConfigured is returned when neither the Brevo API key nor
// SMTP credentials are set.
var ErrEmailNotConfigured = errors.New("email not configured: set BREVO_API_KEY or BREVO_SMTP_LOGIN/BREVO_SMTP_KEY and EMAIL_FROM")

// EmailSender delivers a single message and returns the provider id if any.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) (string, error)
}

// BrevoSender sends through the Brevo transactional API, falling back
// to plain SMTP when the API rejects the request and SMTP credentials
// are available.
type BrevoSender struct {
	cfg      *config.Config
	client   *http.Client
	endpoint string
	log      *applog.Logger
}

func NewBrevoSender(cfg *config.Config, log *applog.Logger) *BrevoSender {
	return &BrevoSender{
		cfg:      cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: brevoEndpoint,
		log:      log.WithComponent(applog.ComponentNotify),
	}
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent"`
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
}

func (s *BrevoSender) SendEmail(ctx context.Context, to, subject, text, html string) (string, error) {
	if s.cfg.EmailFrom == "" {
		return "", ErrEmailNotConfigured
	}

	if s.cfg.BrevoAPIKey != "" {
		id, err := s.sendAPI(ctx, to, subject, text, html)
		if err == nil {
			return id, nil
		}
		if !s.smtpConfigured() {
			return "", err
		}
		s.log.Warn("brevo api send failed, falling back to smtp", applog.FieldError, err, applog.FieldRecipient, to)
		return s.sendSMTP(to, subject, text, html)
	}

	if s.smtpConfigured() {
		return s.sendSMTP(to, subject, text, html)
	}
	return "", ErrEmailNotConfigured
}

func (s *BrevoSender) sendAPI(ctx context.Context, to, subject, text, html string) (string, error) {
	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Email: s.cfg.EmailFrom, Name: "Dream Team Finance"},
		To:          []brevoAddress{{Email: to}},
		Subject:     subject,
		HTMLContent: html,
		TextContent: text,
	})
	if err != nil {
		return "", fmt.Errorf("marshal brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build brevo request: %w", err)
	}
	req.Header.Set("api-key", s.cfg.BrevoAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(body)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return "", fmt.Errorf("brevo send failed: %s", msg)
	}

	var br brevoResponse
	if err := json.Unmarshal(body, &br); err != nil {
		return "", nil
	}
	return br.MessageID, nil
}

func (s *BrevoSender) smtpConfigured() bool {
	return s.cfg.SMTPLogin != "" && s.cfg.SMTPKey != ""
}

func (s *BrevoSender) sendSMTP(to, subject, text, html string) (string, error) {
	e := email.NewEmail()
	e.From = fmt.Sprintf("Dream Team Finance <%s>", s.cfg.EmailFrom)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(text)
	if html != "" {
		e.HTML = []byte(html)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPLogin, s.cfg.SMTPKey, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		return "", fmt.Errorf("smtp send failed: %w", err)
	}
	return "", nil
}
