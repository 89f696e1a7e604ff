package interview

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultTickInterval = 250 * time.Millisecond

// Driver ticks the service on a fixed interval. The countdown is reconciled
// against the clock on every tick, so a late tick never loses time.
type Driver struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
}

func NewDriver(service *Service, interval time.Duration, logger *zap.Logger) *Driver {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{service: service, interval: interval, logger: logger}
}

// Run ticks until ctx is done, then waits for background submissions.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("Session driver started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			d.service.Wait()
			d.logger.Info("Session driver stopped")
			return
		case <-ticker.C:
			if d.service.Tick(ctx) {
				d.logger.Info("Question time expired, submitting held answer")
			}
		}
	}
}
