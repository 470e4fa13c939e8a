// =======================================
// File: internal/dex/pumpfun/monitor.go
// =======================================
package pumpfun

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Event holds Pump.fun notifications (like graduation or bonding updates).
type Event struct {
	Type      string
	TokenMint solana.PublicKey
	Data      map[string]interface{}
}

// Monitor struct for Pump.fun events (simplified).
type Monitor struct {
	logger    *zap.Logger
	interval  time.Duration
	eventChan chan Event
}

func NewPumpfunMonitor(logger *zap.Logger, interval time.Duration) *Monitor {
	return &Monitor{
		logger:    logger.Named("pumpfun-monitor"),
		interval:  interval,
		eventChan: make(chan Event, 10),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("Pumpfun event monitor started", zap.Duration("interval", m.interval))
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Pumpfun event monitor stopped")
			return
		case <-ticker.C:
			// Example event for demonstration
			event := Event{
				Type:      "bonding_update",
				TokenMint: solana.PublicKey{},
				Data: map[string]interface{}{
					"progress": 100.0,
				},
			}
			m.eventChan <- event
		}
	}
}

func (m *Monitor) GetEvents() <-chan Event {
	return m.eventChan
}
