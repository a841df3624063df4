// internal/app/system/workers/monitorsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"go.uber.org/zap"
)

// MonitorSweep is a background worker that flags monitoring windows whose
// 90-day end date passed without completion. Lapsed visitors move to
// needs-attention so caseload views surface them even when nobody touches
// the record.
type MonitorSweep struct {
	visitors *visitorstore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewMonitorSweep creates a new monitoring sweep worker.
//
// Parameters:
//   - visitorStore: the visitors store
//   - logger: zap logger for logging
//   - interval: how often to run the sweep (e.g., 1 hour)
func NewMonitorSweep(visitorStore *visitorstore.Store, logger *zap.Logger, interval time.Duration) *MonitorSweep {
	return &MonitorSweep{
		visitors: visitorStore,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *MonitorSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("monitoring sweep worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *MonitorSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("monitoring sweep worker stopped")
}

func (w *MonitorSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Sweep once at startup so a long-stopped deployment catches up
	// without waiting a full interval.
	w.sweep()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *MonitorSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.visitors.FlagLapsedWindows(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error("failed to sweep lapsed monitoring windows", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("flagged lapsed monitoring windows", zap.Int64("count", count))
	}
}
