// Package retention provides the background session retention worker.
package retention

import (
	"context"
	"time"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// Worker periodically marks sessions inactive once their last activity
// falls outside the retention window. Sessions and their leads are never
// deleted; the sweep only flips is_active.
type Worker struct {
	sessions      domain.SessionRepository
	logger        *logging.ChanneledLogger
	sweepInterval time.Duration
	inactiveAfter time.Duration
}

// NewWorker creates a new retention worker with the configured interval.
func NewWorker(sessions domain.SessionRepository, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		sessions:      sessions,
		logger:        logger,
		sweepInterval: config.RetentionSweepInterval,
		inactiveAfter: time.Duration(config.SessionInactiveDays) * 24 * time.Hour,
	}
}

// Start begins the retention sweep loop. It runs one sweep immediately,
// then on the configured interval until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.Retention().Info("Retention worker started",
		"sweepInterval", w.sweepInterval,
		"inactiveAfter", w.inactiveAfter)

	w.Sweep()

	for {
		select {
		case <-ctx.Done():
			w.logger.Retention().Info("Retention worker stopping")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one retention pass and reports how many sessions were
// deactivated. Errors are logged and swallowed so the loop keeps running.
func (w *Worker) Sweep() int64 {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-w.inactiveAfter)

	deactivated, err := w.sessions.MarkInactiveOlderThan(cutoff)
	if err != nil {
		w.logger.Retention().Error("Retention sweep failed", "error", err.Error())
		return 0
	}

	if deactivated > 0 {
		w.logger.Retention().Info("Retention sweep finished",
			"deactivated", deactivated,
			"duration", time.Since(start))
	}
	return deactivated
}
