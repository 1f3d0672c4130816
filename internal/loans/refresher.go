package loans

import (
	"time"

	"biblioteca/pkg/logger"
)

// Refresher runs the overdue sweep once at startup and then on a fixed
// interval, the way the desktop app rechecked loans hourly. The sweep is
// idempotent so overlapping runs are harmless.
type Refresher struct {
	service  *Service
	interval time.Duration
	log      *logger.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewRefresher(service *Service, interval time.Duration, log *logger.Logger) *Refresher {
	return &Refresher{
		service:  service,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the first sweep synchronously, then keeps sweeping in the
// background until Stop is called.
func (r *Refresher) Start() {
	if err := r.service.RefreshOverdueStatuses(); err != nil {
		r.log.Error("overdue_refresh_failed", "error", err.Error())
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				if err := r.service.RefreshOverdueStatuses(); err != nil {
					r.log.Error("overdue_refresh_failed", "error", err.Error())
				} else {
					r.log.Debug("overdue_refresh_done")
				}
			}
		}
	}()
}

// Stop halts the background sweep and waits for it to exit.
func (r *Refresher) Stop() {
	close(r.stop)
	<-r.done
}
