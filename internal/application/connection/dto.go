package connection

import (
	"time"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
)

// ConnectResult is the outcome of a connect request
type ConnectResult struct {
	// State is the connection state reached by the request
	State connection.ConnectionState `json:"state"`
	// ActivationToken is the opaque token the seller must relay out of band;
	// set only when State is pending_activation
	ActivationToken string `json:"activation_token,omitempty"`
	// Summary is the initial reconciliation result for catalog providers
	Summary *catalog.SyncSummary `json:"summary,omitempty"`
}

// StateResult is the read-only connection status for one provider kind
type StateResult struct {
	State        connection.ConnectionState `json:"state"`
	Provider     connection.ProviderCode    `json:"provider,omitempty"`
	AccountID    string                     `json:"account_id,omitempty"`
	StoreDomain  string                     `json:"store_domain,omitempty"`
	LastSyncedAt *time.Time                 `json:"last_synced_at,omitempty"`
	LastSummary  *catalog.SyncSummary       `json:"last_summary,omitempty"`
}
