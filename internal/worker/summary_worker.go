package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/controller"
)

// StartSummaryWorker refreshes the dashboard summary on a fixed
// interval until ctx is cancelled. It runs independently of
// user-triggered refreshes; a failed tick is logged and the next tick
// tries again, there is no backoff or retry inside an interval.
func StartSummaryWorker(ctx context.Context, interval time.Duration, dashboard *controller.Dashboard, logger *zap.Logger) {
	if dashboard == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := dashboard.Refresh(ctx); err != nil {
					logger.Warn("periodic summary refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
