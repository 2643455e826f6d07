package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pulsecrm/backend/internal/config"
)

// Sender delivers SMS messages.
type Sender interface {
	Send(ctx context.Context, to, body string) error
	Enabled() bool
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	return &TwilioSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *TwilioSender) Enabled() bool {
	return s.cfg.Enabled()
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("sms sender is not configured")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.APIBase, s.cfg.AccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, string(payload))
	}

	return nil
}
