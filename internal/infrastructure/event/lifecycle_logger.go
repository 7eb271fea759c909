package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/domain/shared"
)

// LifecycleLogger subscribes to connection lifecycle events and writes one
// structured audit line per event
type LifecycleLogger struct {
	logger *zap.Logger
}

// NewLifecycleLogger creates a LifecycleLogger
func NewLifecycleLogger(logger *zap.Logger) *LifecycleLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleLogger{logger: logger}
}

// EventTypes returns the lifecycle event types this handler consumes
func (h *LifecycleLogger) EventTypes() []string {
	return []string{
		connection.EventTypeProviderConnected,
		connection.EventTypeProviderDisconnected,
		connection.EventTypeCatalogSynced,
	}
}

// Handle logs one lifecycle event
func (h *LifecycleLogger) Handle(ctx context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", evt.EventID().String()),
		zap.String("seller_id", evt.SellerID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	}

	switch e := evt.(type) {
	case *connection.ProviderConnectedEvent:
		fields = append(fields,
			zap.String("provider", e.Provider.String()),
			zap.String("state", e.State.String()))
	case *connection.ProviderDisconnectedEvent:
		fields = append(fields,
			zap.String("kind", e.Kind.String()),
			zap.Int64("demoted_items", e.DemotedItems))
	case *connection.CatalogSyncedEvent:
		fields = append(fields,
			zap.String("provider", e.Provider.String()),
			zap.Int("imported", e.Summary.Imported),
			zap.Int("updated", e.Summary.Updated),
			zap.Int("errored", e.Summary.Errored),
			zap.Int("total_remote", e.Summary.TotalRemote))
	}

	h.logger.Info(evt.EventType(), fields...)
	return nil
}

var _ shared.EventHandler = (*LifecycleLogger)(nil)
