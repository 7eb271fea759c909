package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/shoplink/backend/internal/domain/connection"
)

// WhatsAppSandboxAdapter implements MessagingProvider for the shared
// sandbox number. Sellers must relay a join keyword to the sandbox before
// two-way messaging works, so a successful connect parks the credential in
// pending activation.
type WhatsAppSandboxAdapter struct {
	config     *WhatsAppConfig
	httpClient *http.Client
}

// NewWhatsAppSandboxAdapter creates a new sandbox adapter
func NewWhatsAppSandboxAdapter(config *WhatsAppConfig) (*WhatsAppSandboxAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.SandboxBaseURL == "" {
		return nil, ErrWhatsAppInvalidConfig
	}

	return &WhatsAppSandboxAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the provider code this adapter handles
func (a *WhatsAppSandboxAdapter) Code() connection.ProviderCode {
	return connection.ProviderCodeWhatsAppSandbox
}

// Probe verifies the sandbox account is reachable with the credential
func (a *WhatsAppSandboxAdapter) Probe(ctx context.Context, cred *connection.ProviderCredential) error {
	url := fmt.Sprintf("%s/v1/sandbox/accounts/%s", a.config.SandboxBaseURL, cred.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("whatsapp sandbox: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", connection.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize)); err != nil {
		return fmt.Errorf("whatsapp sandbox: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: sandbox rejected the token (HTTP %d)", connection.ErrProviderAuthFailed, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: sandbox returned HTTP %d", connection.ErrProviderUnreachable, resp.StatusCode)
	}
	return nil
}

// RequiresActivation reports that the sandbox needs the join handshake
func (a *WhatsAppSandboxAdapter) RequiresActivation() bool {
	return true
}

// IssueActivationToken returns the join keyword the seller must send to the
// sandbox number. The keyword is stable per account so a repeated connect
// hands back the same instruction.
func (a *WhatsAppSandboxAdapter) IssueActivationToken(ctx context.Context, cred *connection.ProviderCredential) (string, error) {
	return "join " + joinKeyword(cred.AccountID), nil
}

// sandbox join keywords are adjective-noun pairs, mirroring the format the
// shared sandbox expects
var (
	joinAdjectives = []string{
		"amber", "brave", "coral", "dusty", "eager", "fuzzy", "giant", "happy",
		"ivory", "jolly", "keen", "lucky", "mellow", "noble", "olive", "proud",
	}
	joinNouns = []string{
		"otter", "falcon", "maple", "harbor", "comet", "willow", "ember", "ridge",
		"meadow", "lantern", "breeze", "summit", "clover", "drift", "anchor", "sparrow",
	}
)

// joinKeyword derives a deterministic adjective-noun keyword from the
// sandbox account ID
func joinKeyword(accountID string) string {
	h := fnv.New32a()
	h.Write([]byte(accountID))
	sum := h.Sum32()
	adj := joinAdjectives[sum%uint32(len(joinAdjectives))]
	noun := joinNouns[(sum/uint32(len(joinAdjectives)))%uint32(len(joinNouns))]
	return adj + "-" + noun
}

// Ensure WhatsAppSandboxAdapter implements MessagingProvider
var _ connection.MessagingProvider = (*WhatsAppSandboxAdapter)(nil)
