package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/domain/shared"
)

// Config holds the service's timing knobs
type Config struct {
	// ProbeTimeout bounds the provider reachability probe during connect
	ProbeTimeout time.Duration
	// FetchTimeout bounds one full remote catalog fetch
	FetchTimeout time.Duration
	// SyncLockTTL bounds how long a crashed pass can hold the sync guard
	SyncLockTTL time.Duration
}

// DefaultConfig returns the default service configuration
func DefaultConfig() Config {
	return Config{
		ProbeTimeout: 10 * time.Second,
		FetchTimeout: 2 * time.Minute,
		SyncLockTTL:  5 * time.Minute,
	}
}

// normalize fills zero fields with defaults
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = def.ProbeTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.SyncLockTTL <= 0 {
		c.SyncLockTTL = def.SyncLockTTL
	}
	return c
}

// Service drives the provider connection lifecycle for sellers: connect,
// activation confirmation, catalog reconciliation, and disconnect.
type Service struct {
	credentials connection.CredentialRepository
	items       catalog.ItemRepository
	reconciler  *catalog.Reconciler
	registry    connection.Registry
	guard       connection.SyncGuard
	events      shared.EventPublisher
	cfg         Config
	logger      *zap.Logger
}

// NewService creates a new connection Service. events may be nil when no
// subscriber is interested in lifecycle events.
func NewService(
	credentials connection.CredentialRepository,
	items catalog.ItemRepository,
	registry connection.Registry,
	guard connection.SyncGuard,
	events shared.EventPublisher,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		credentials: credentials,
		items:       items,
		reconciler:  catalog.NewReconciler(items),
		registry:    registry,
		guard:       guard,
		events:      events,
		cfg:         cfg.normalize(),
		logger:      logger,
	}
}

// publish emits lifecycle events when a publisher is configured. Delivery is
// best effort and never fails the operation that emitted the event.
func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish lifecycle events", zap.Error(err))
	}
}

// ---------------------------------------------------------------------------
// Connect
// ---------------------------------------------------------------------------

// Connect validates and probes the submitted credential, persists it, and
// brings the connection to connected or pending_activation. A credential
// that fails the reachability probe is never persisted, so the store can
// never report a connected provider with an invalid secret. Re-submitting
// always restarts the cycle and replaces the previous credential, discarding
// any activation token in flight.
func (s *Service) Connect(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind, input connection.CredentialInput) (*ConnectResult, error) {
	if !kind.IsValid() {
		return nil, connection.ErrInvalidProviderKind
	}
	if input.Code.Kind() != kind {
		return nil, connection.ErrProviderKindMismatch
	}

	cred, err := connection.NewProviderCredential(sellerID, input)
	if err != nil {
		return nil, err
	}

	switch kind {
	case connection.ProviderKindCatalog:
		return s.connectCatalog(ctx, cred)
	default:
		return s.connectMessaging(ctx, cred)
	}
}

// connectMessaging handles the messaging branch of connect
func (s *Service) connectMessaging(ctx context.Context, cred *connection.ProviderCredential) (*ConnectResult, error) {
	adapter, err := s.registry.Messaging(cred.Code)
	if err != nil {
		return nil, err
	}

	if err := s.probe(ctx, adapter, cred); err != nil {
		return nil, err
	}

	result := &ConnectResult{State: connection.StateConnected}
	if adapter.RequiresActivation() {
		token, err := adapter.IssueActivationToken(ctx, cred)
		if err != nil {
			// No credential is persisted when token issuance fails; the
			// connect attempt aborts with no state change.
			return nil, fmt.Errorf("%w: %v", connection.ErrProviderUnreachable, err)
		}
		cred.RequireActivation(token)
		result.State = connection.StatePendingActivation
		result.ActivationToken = token
	}

	if err := s.credentials.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info("messaging provider connected",
		zap.String("seller_id", cred.SellerID.String()),
		zap.String("provider", cred.Code.String()),
		zap.String("state", result.State.String()))
	s.publish(ctx, connection.NewProviderConnectedEvent(cred, result.State))

	return result, nil
}

// connectCatalog handles the catalog branch of connect: probe, persist,
// then run the initial reconciliation pass. A fatal pass (every item
// failed, or the fetch died before any item was read) rolls the credential
// back so the state stays disconnected.
func (s *Service) connectCatalog(ctx context.Context, cred *connection.ProviderCredential) (*ConnectResult, error) {
	adapter, err := s.registry.Catalog(cred.Code)
	if err != nil {
		return nil, err
	}

	if err := s.probe(ctx, adapter, cred); err != nil {
		return nil, err
	}

	// The guard is taken before the credential write. A pass already running
	// for this slot rejects the connect here, while the stored credential is
	// still intact; it must never reach the rollback below.
	key := connection.SyncGuardKey(cred.SellerID, cred.Kind)
	locked, err := s.guard.TryLock(ctx, key, s.cfg.SyncLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, connection.ErrSyncInProgress
	}
	defer s.unlock(ctx, key)

	if err := s.credentials.Save(ctx, cred); err != nil {
		return nil, err
	}

	summary, err := s.runPass(ctx, cred, adapter)
	if err != nil {
		// Initial pass failed outright: undo the credential write so the
		// seller sees a clean failed connect, not a half-connected store.
		if clearErr := s.credentials.ClearBySellerAndKind(ctx, cred.SellerID, cred.Kind); clearErr != nil {
			s.logger.Error("failed to roll back credential after fatal initial sync",
				zap.String("seller_id", cred.SellerID.String()),
				zap.Error(clearErr))
		}
		return nil, err
	}

	cred.RecordSync(summary)
	if err := s.credentials.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info("catalog provider connected",
		zap.String("seller_id", cred.SellerID.String()),
		zap.String("provider", cred.Code.String()),
		zap.Int("imported", summary.Imported),
		zap.Int("updated", summary.Updated),
		zap.Int("errored", summary.Errored))
	s.publish(ctx,
		connection.NewProviderConnectedEvent(cred, connection.StateConnected),
		connection.NewCatalogSyncedEvent(cred, summary))

	return &ConnectResult{State: connection.StateConnected, Summary: &summary}, nil
}

// probe runs the bounded reachability check
func (s *Service) probe(ctx context.Context, adapter connection.Provider, cred *connection.ProviderCredential) error {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	if err := adapter.Probe(probeCtx, cred); err != nil {
		if errors.Is(err, connection.ErrProviderUnreachable) || errors.Is(err, connection.ErrProviderAuthFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", connection.ErrProviderUnreachable, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// ConfirmActivation
// ---------------------------------------------------------------------------

// ConfirmActivation completes the out-of-band handshake for a messaging
// provider parked in pending_activation
func (s *Service) ConfirmActivation(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) (*StateResult, error) {
	cred, err := s.credentials.FindBySellerAndKind(ctx, sellerID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, connection.ErrNotPendingActivation
		}
		return nil, err
	}

	if err := cred.ConfirmActivation(); err != nil {
		return nil, err
	}
	if err := s.credentials.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info("provider activation confirmed",
		zap.String("seller_id", sellerID.String()),
		zap.String("provider", cred.Code.String()))

	return s.stateResult(cred), nil
}

// ---------------------------------------------------------------------------
// Sync
// ---------------------------------------------------------------------------

// Sync runs one full reconciliation pass for a connected catalog provider.
// Passes for the same (seller, kind) are serialized by the sync guard;
// a concurrent request is rejected with ErrSyncInProgress and should simply
// be retried later.
func (s *Service) Sync(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) (catalog.SyncSummary, error) {
	if kind != connection.ProviderKindCatalog {
		return catalog.SyncSummary{}, connection.ErrInvalidProviderKind
	}

	cred, err := s.credentials.FindBySellerAndKind(ctx, sellerID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return catalog.SyncSummary{}, connection.ErrNotConnected
		}
		return catalog.SyncSummary{}, err
	}

	adapter, err := s.registry.Catalog(cred.Code)
	if err != nil {
		return catalog.SyncSummary{}, err
	}

	summary, err := s.runSync(ctx, cred, adapter)
	if err != nil {
		return catalog.SyncSummary{}, err
	}

	cred.RecordSync(summary)
	if err := s.credentials.Save(ctx, cred); err != nil {
		return catalog.SyncSummary{}, err
	}
	s.publish(ctx, connection.NewCatalogSyncedEvent(cred, summary))

	return summary, nil
}

// runSync executes one reconciliation pass under the sync guard
func (s *Service) runSync(ctx context.Context, cred *connection.ProviderCredential, adapter connection.CatalogProvider) (catalog.SyncSummary, error) {
	key := connection.SyncGuardKey(cred.SellerID, cred.Kind)
	locked, err := s.guard.TryLock(ctx, key, s.cfg.SyncLockTTL)
	if err != nil {
		return catalog.SyncSummary{}, err
	}
	if !locked {
		return catalog.SyncSummary{}, connection.ErrSyncInProgress
	}
	defer s.unlock(ctx, key)

	return s.runPass(ctx, cred, adapter)
}

// unlock releases the sync guard, surviving a canceled request context
func (s *Service) unlock(ctx context.Context, key string) {
	if err := s.guard.Unlock(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("failed to release sync guard", zap.String("key", key), zap.Error(err))
	}
}

// runPass executes one reconciliation pass. The caller holds the sync guard.
// Per-item failures are absorbed into the summary; the pass itself fails only
// when the fetch died before any item was processed or every processed item
// failed.
func (s *Service) runPass(ctx context.Context, cred *connection.ProviderCredential, adapter connection.CatalogProvider) (catalog.SyncSummary, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	pass, err := s.reconciler.Begin(fetchCtx, cred.SellerID)
	if err != nil {
		return catalog.SyncSummary{}, err
	}

	total, fetchErr := adapter.FetchCatalog(fetchCtx, cred, func(page []catalog.RemoteItem) error {
		return pass.Apply(fetchCtx, page)
	})

	summary := pass.Finish(total)

	if fetchErr != nil {
		if summary.Processed() == 0 {
			// Nothing was read before the failure: the whole pass aborts.
			return catalog.SyncSummary{}, fmt.Errorf("%w: %v", connection.ErrProviderUnreachable, fetchErr)
		}
		// A partial fetch is a valid partial result; the unprocessed
		// remainder stays visible as totalRemote minus processed.
		s.logger.Warn("catalog fetch ended early, reporting partial pass",
			zap.String("seller_id", cred.SellerID.String()),
			zap.Int("processed", summary.Processed()),
			zap.Int("total_remote", summary.TotalRemote),
			zap.Error(fetchErr))
	}

	if summary.AllFailed() {
		return catalog.SyncSummary{}, fmt.Errorf("%w: %d of %d items failed",
			connection.ErrSyncFatal, summary.Errored, summary.Processed())
	}

	return summary, nil
}

// ---------------------------------------------------------------------------
// Disconnect
// ---------------------------------------------------------------------------

// Disconnect reverses a connection. For catalog providers every imported
// item is marked unavailable first; items are never deleted so existing
// orders keep resolving. Demotion is best effort: its failure is logged and
// swallowed because a stale-but-unavailable item is the safe failure mode
// and the next sync corrects it. Disconnect is idempotent and always ends
// in the disconnected state.
func (s *Service) Disconnect(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) (*StateResult, error) {
	if !kind.IsValid() {
		return nil, connection.ErrInvalidProviderKind
	}

	var demoted int64
	if kind == connection.ProviderKindCatalog {
		var err error
		demoted, err = s.items.MarkExternalUnavailable(ctx, sellerID)
		if err != nil {
			s.logger.Error("failed to demote imported items during disconnect",
				zap.String("seller_id", sellerID.String()),
				zap.Error(err))
		} else if demoted > 0 {
			s.logger.Info("imported items marked unavailable",
				zap.String("seller_id", sellerID.String()),
				zap.Int64("count", demoted))
		}
	}

	if err := s.credentials.ClearBySellerAndKind(ctx, sellerID, kind); err != nil {
		// Clearing is idempotent; a storage failure here is logged and the
		// caller can re-issue the disconnect.
		s.logger.Error("failed to clear provider credential",
			zap.String("seller_id", sellerID.String()),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("provider disconnected",
		zap.String("seller_id", sellerID.String()),
		zap.String("kind", kind.String()))
	s.publish(ctx, connection.NewProviderDisconnectedEvent(sellerID, kind, demoted))

	return &StateResult{State: connection.StateDisconnected}, nil
}

// ---------------------------------------------------------------------------
// GetState
// ---------------------------------------------------------------------------

// GetState reports the derived connection state for one provider kind.
// It is read-only and side-effect free.
func (s *Service) GetState(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) (*StateResult, error) {
	if !kind.IsValid() {
		return nil, connection.ErrInvalidProviderKind
	}

	cred, err := s.credentials.FindBySellerAndKind(ctx, sellerID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &StateResult{State: connection.StateDisconnected}, nil
		}
		return nil, err
	}

	return s.stateResult(cred), nil
}

// stateResult builds a StateResult from a stored credential
func (s *Service) stateResult(cred *connection.ProviderCredential) *StateResult {
	return &StateResult{
		State:        cred.State(),
		Provider:     cred.Code,
		AccountID:    cred.AccountID,
		StoreDomain:  cred.StoreDomain,
		LastSyncedAt: cred.LastSyncedAt,
		LastSummary:  cred.LastSummary(),
	}
}
