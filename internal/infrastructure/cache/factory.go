package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/infrastructure/config"
)

// SyncGuardFactory creates sync guards based on configuration
type SyncGuardFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SyncGuardFactoryOption is a functional option for configuring the factory
type SyncGuardFactoryOption func(*SyncGuardFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SyncGuardFactoryOption {
	return func(f *SyncGuardFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-process
// guard when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SyncGuardFactoryOption {
	return func(f *SyncGuardFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSyncGuardFactory creates a new factory
func NewSyncGuardFactory(cfg config.RedisConfig, opts ...SyncGuardFactoryOption) *SyncGuardFactory {
	f := &SyncGuardFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisGuard creates a Redis-backed sync guard
func (f *SyncGuardFactory) CreateRedisGuard() (connection.SyncGuard, error) {
	guard, err := NewRedisSyncGuard(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis sync guard: %w", err)
	}
	return guard, nil
}

// CreateInMemoryGuard creates an in-process sync guard.
// WARNING: in-memory guards do not share state across process instances,
// so concurrent syncs of the same seller can slip through in distributed
// deployments.
func (f *SyncGuardFactory) CreateInMemoryGuard() connection.SyncGuard {
	return NewInMemorySyncGuard()
}

// CreateGuard creates a sync guard based on configuration.
// When Redis is disabled it returns the in-process guard directly; when
// enabled it tries Redis first and falls back to in-memory if allowed.
func (f *SyncGuardFactory) CreateGuard() (connection.SyncGuard, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory sync guard")
		return f.CreateInMemoryGuard(), nil
	}

	guard, err := f.CreateRedisGuard()
	if err == nil {
		f.logger.Info("using Redis sync guard")
		return guard, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for sync locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory sync guard. "+
		"Concurrent syncs of the same seller may slip through in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryGuard(), nil
}
