package scheduler

import (
	"context"
	"time"

	"github.com/hmoreau/linkshelf/internal/logger"
)

const (
	// DefaultGCInterval is how often expired auth rows are swept.
	DefaultGCInterval = time.Hour
)

// ExpiredDeleter is anything that can drop rows expired before a cutoff.
// The session and reset-token stores both satisfy it.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// GarbageCollector periodically deletes expired sessions and password
// reset tokens. Expired rows are already unusable; the sweep only keeps
// the tables from growing without bound.
type GarbageCollector struct {
	sessions    ExpiredDeleter
	resetTokens ExpiredDeleter
	logger      logger.Logger
	interval    time.Duration
	stopCh      chan struct{}
}

// NewGarbageCollector creates a new garbage collector.
func NewGarbageCollector(
	sessions ExpiredDeleter,
	resetTokens ExpiredDeleter,
	log logger.Logger,
	interval time.Duration,
) *GarbageCollector {
	if interval == 0 {
		interval = DefaultGCInterval
	}

	return &GarbageCollector{
		sessions:    sessions,
		resetTokens: resetTokens,
		logger:      log,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the periodic collection process.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector.
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes all expired sessions and reset tokens.
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	now := time.Now()

	sessionsDeleted, err := gc.sessions.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}

	tokensDeleted, err := gc.resetTokens.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}

	total := sessionsDeleted + tokensDeleted
	if total > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("sessions_deleted", int(sessionsDeleted)),
			logger.Int("reset_tokens_deleted", int(tokensDeleted)))
	} else {
		gc.logger.Debug("no expired rows to garbage collect")
	}

	return nil
}
