package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/config"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

const twilioBaseURL = "https://api.twilio.com"

// ErrSMSNotConfigured is returned when the Twilio credentials are missing.
var ErrSMSNotConfigured = errors.New("sms not configured: set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER")

// SMSSender delivers a single text message and returns the provider sid.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) (string, error)
}

// TwilioSender sends through the Twilio Messages API.
type TwilioSender struct {
	cfg     *config.Config
	client  *http.Client
	baseURL string
	log     *applog.Logger
}

func NewTwilioSender(cfg *config.Config, log *applog.Logger) *TwilioSender {
	return &TwilioSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: twilioBaseURL,
		log:     log.WithComponent(applog.ComponentNotify),
	}
}

type twilioResponse struct {
	SID string `json:"sid"`
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, message string) (string, error) {
	if !s.cfg.SMSConfigured() {
		return "", ErrSMSNotConfigured
	}

	form := url.Values{
		"From": {s.cfg.TwilioFromNumber},
		"To":   {to},
		"Body": {message},
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.cfg.TwilioAccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio error: %s", strings.TrimSpace(string(body)))
	}

	var tr twilioResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", nil
	}
	return tr.SID, nil
}
