package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shoplink/backend/internal/domain/connection"
)

// ErrNoActivationRequired is returned when an activation token is requested
// from a provider that activates immediately
var ErrNoActivationRequired = errors.New("whatsapp: provider requires no activation")

// whatsappPhoneResponse is the Graph API phone number resource
type whatsappPhoneResponse struct {
	ID                 string `json:"id"`
	DisplayPhoneNumber string `json:"display_phone_number"`
	VerifiedName       string `json:"verified_name"`
}

// WhatsAppCloudAdapter implements MessagingProvider for the WhatsApp
// Business Cloud API. The account identifier is the phone number ID.
type WhatsAppCloudAdapter struct {
	config     *WhatsAppConfig
	httpClient *http.Client
}

// NewWhatsAppCloudAdapter creates a new Cloud API adapter
func NewWhatsAppCloudAdapter(config *WhatsAppConfig) (*WhatsAppCloudAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &WhatsAppCloudAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the provider code this adapter handles
func (a *WhatsAppCloudAdapter) Code() connection.ProviderCode {
	return connection.ProviderCodeWhatsAppCloud
}

// Probe reads the phone number resource to verify the token grants access
// to the claimed phone number ID
func (a *WhatsAppCloudAdapter) Probe(ctx context.Context, cred *connection.ProviderCredential) error {
	url := fmt.Sprintf("%s/%s/%s", a.config.GraphBaseURL, a.config.GraphVersion, cred.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", connection.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("whatsapp: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: graph API rejected the token (HTTP %d)", connection.ErrProviderAuthFailed, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: graph API returned HTTP %d", connection.ErrProviderUnreachable, resp.StatusCode)
	}

	var phone whatsappPhoneResponse
	if err := json.Unmarshal(body, &phone); err != nil || phone.ID == "" {
		return fmt.Errorf("%w: graph API returned an unreadable phone resource", connection.ErrProviderUnreachable)
	}
	return nil
}

// RequiresActivation reports that the Cloud API works immediately after a
// successful probe
func (a *WhatsAppCloudAdapter) RequiresActivation() bool {
	return false
}

// IssueActivationToken is never called for the Cloud API
func (a *WhatsAppCloudAdapter) IssueActivationToken(ctx context.Context, cred *connection.ProviderCredential) (string, error) {
	return "", ErrNoActivationRequired
}

// Ensure WhatsAppCloudAdapter implements MessagingProvider
var _ connection.MessagingProvider = (*WhatsAppCloudAdapter)(nil)
