package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"amazonas-backend/config"
)

var (
	// ErrGatewayNotConfigured means the server has no private gateway key;
	// card bookings are rejected per request, the process still serves.
	ErrGatewayNotConfigured = errors.New("gateway_not_configured")
)

// GatewayError is a failure reported by the gateway itself (as opposed to a
// transport failure): the response carried an error shape instead of a
// payment-link id.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error: %s", e.Message)
}

// PaymentLinkRequest is the payment-link creation body sent to the gateway.
type PaymentLinkRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	SingleUse     bool   `json:"single_use"`
	Currency      string `json:"currency"`
	AmountInCents int64  `json:"amount_in_cents"`
	RedirectURL   string `json:"redirect_url"`
	WebhookURL    string `json:"webhook_url,omitempty"`
}

// PaymentLink is a successfully created gateway payment link.
type PaymentLink struct {
	ID          string
	CheckoutURL string
}

// GatewayTransaction is the gateway's view of a transaction, plus the raw
// payload for opaque storage on the booking.
type GatewayTransaction struct {
	ID     string
	Status string
	Raw    json.RawMessage
}

// PaymentService talks HTTPS to the Wompi gateway. The gateway has no Go SDK;
// this is the whole client.
type PaymentService struct {
	Cfg    config.App
	Client *http.Client
}

func NewPaymentService(cfg config.App) *PaymentService {
	return &PaymentService{
		Cfg:    cfg,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

type gatewayEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentLink posts the payment-link request with the private key and
// returns the link id plus derived hosted-checkout URL. A response without a
// link id becomes a *GatewayError carrying the gateway's message if present.
func (s *PaymentService) CreatePaymentLink(req PaymentLinkRequest) (*PaymentLink, error) {
	if s.Cfg.WompiPrivateKey == "" {
		return nil, ErrGatewayNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment link request: %w", err)
	}

	url := strings.TrimRight(s.Cfg.WompiAPIURL, "/") + "/payment_links"
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment link request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.Cfg.WompiPrivateKey)

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var env gatewayEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}

	var data struct {
		ID string `json:"id"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("malformed gateway response data: %w", err)
		}
	}
	if data.ID == "" {
		msg := "payment link creation failed"
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		} else if env.Error != nil && env.Error.Reason != "" {
			msg = env.Error.Reason
		}
		return nil, &GatewayError{Message: msg}
	}

	return &PaymentLink{
		ID:          data.ID,
		CheckoutURL: s.Cfg.WompiCheckoutBase + data.ID,
	}, nil
}

// GetTransaction queries the transaction-status endpoint with the public key.
func (s *PaymentService) GetTransaction(paymentID string) (*GatewayTransaction, error) {
	url := strings.TrimRight(s.Cfg.WompiAPIURL, "/") + "/transactions/" + paymentID
	httpReq, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.Cfg.WompiPublicKey)

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var env gatewayEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}
	if len(env.Data) == 0 {
		msg := "transaction lookup failed"
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return nil, &GatewayError{Message: msg}
	}

	var data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("malformed gateway response data: %w", err)
	}

	return &GatewayTransaction{
		ID:     data.ID,
		Status: data.Status,
		Raw:    append(json.RawMessage(nil), env.Data...),
	}, nil
}
