// Scheduler implements the OHLCV Scheduler / Priority Manager (§4.8):
// per-token priority scoring, adjusted fetch cadence, throttling and the
// Active -> Throttled -> Paused -> Active state machine.
package ohlcv

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
)

// ActivityEvent reshapes a token's priority band (§4.8).
type ActivityEvent int

const (
	ActivityPositionOpened ActivityEvent = iota
	ActivityPositionClosed
	ActivityChartViewed
	ActivityDataRequested
)

// TokenState is a monitored token's scheduling state.
type TokenState int

const (
	StateActive TokenState = iota
	StateThrottled
	StatePaused
)

func (s TokenState) String() string {
	switch s {
	case StateThrottled:
		return "throttled"
	case StatePaused:
		return "paused"
	default:
		return "active"
	}
}

type trackedToken struct {
	cfg   marketdata.TokenOhlcvConfig
	state TokenState
}

// Scheduler maintains per-mint TokenOhlcvConfig and scheduling state. It
// is safe for concurrent use (read-mostly map guard).
type Scheduler struct {
	mu     sync.RWMutex
	tokens map[string]*trackedToken
	logger *zap.Logger
}

// NewScheduler builds an empty Scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tokens: make(map[string]*trackedToken),
		logger: logger.Named("ohlcv-scheduler"),
	}
}

// Track registers a mint for monitoring at the default Low priority if
// not already tracked.
func (s *Scheduler) Track(mint string, pools []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[mint]; ok {
		return
	}
	s.tokens[mint] = &trackedToken{
		cfg: marketdata.TokenOhlcvConfig{
			Mint:         mint,
			Pools:        pools,
			Priority:     marketdata.PriorityLow,
			LastActivity: time.Now(),
			IsActive:     true,
		},
		state: StateActive,
	}
}

// Config returns a copy of the tracked config for mint.
func (s *Scheduler) Config(mint string) (marketdata.TokenOhlcvConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[mint]
	if !ok {
		return marketdata.TokenOhlcvConfig{}, false
	}
	return t.cfg, true
}

// State returns the scheduling state for mint.
func (s *Scheduler) State(mint string) (TokenState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[mint]
	if !ok {
		return StateActive, false
	}
	return t.state, true
}

// priorityScore implements §4.8's formula:
//
//	score  = (is_open_position ? 100 : 0) + 10*recent_views + 50*recent_trades
//	score *= 1 / (1 + hours_since_activity / 24)
func priorityScore(cfg marketdata.TokenOhlcvConfig) float64 {
	score := 0.0
	if cfg.IsOpenPosition {
		score += 100
	}
	score += 10 * float64(cfg.RecentViews)
	score += 50 * float64(cfg.RecentTrades)
	hours := time.Since(cfg.LastActivity).Hours()
	score *= 1 / (1 + hours/24)
	return score
}

// scoreToPriority derives the priority band from a score.
func scoreToPriority(score float64) marketdata.Priority {
	switch {
	case score >= 100:
		return marketdata.PriorityCritical
	case score >= 50:
		return marketdata.PriorityHigh
	case score >= 10:
		return marketdata.PriorityMedium
	default:
		return marketdata.PriorityLow
	}
}

// RecomputePriority re-scores mint and updates its priority band.
func (s *Scheduler) RecomputePriority(mint string) (marketdata.Priority, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[mint]
	if !ok {
		return marketdata.PriorityLow, false
	}
	t.cfg.Priority = scoreToPriority(priorityScore(t.cfg))
	return t.cfg.Priority, true
}

func nudgeUp(p marketdata.Priority) marketdata.Priority {
	if p < marketdata.PriorityCritical {
		return p + 1
	}
	return p
}

// OnActivity applies an activity event's priority reshaping (§4.8).
func (s *Scheduler) OnActivity(mint string, event ActivityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[mint]
	if !ok {
		return
	}
	t.cfg.LastActivity = time.Now()
	t.cfg.ConsecutiveEmptyFetches = 0
	t.cfg.IsActive = true
	t.state = StateActive

	switch event {
	case ActivityPositionOpened:
		t.cfg.IsOpenPosition = true
		t.cfg.Priority = marketdata.PriorityCritical
	case ActivityPositionClosed:
		t.cfg.IsOpenPosition = false
		if t.cfg.Priority == marketdata.PriorityCritical {
			t.cfg.Priority = marketdata.PriorityHigh
		}
	case ActivityChartViewed:
		t.cfg.RecentViews++
		t.cfg.Priority = nudgeUp(t.cfg.Priority)
	case ActivityDataRequested:
		t.cfg.Priority = marketdata.PriorityHigh
	}
}

// AdjustedInterval computes the priority-adjusted fetch cadence (§4.8):
//
//	adjusted = base_interval * empty_factor * time_factor, capped at 10x base
//	empty_factor = 1 + consecutive_empty_fetches/10
//	time_factor  = 1 + hours_since_activity/24
func AdjustedInterval(cfg marketdata.TokenOhlcvConfig) time.Duration {
	base := cfg.Priority.BaseInterval()
	emptyFactor := 1 + float64(cfg.ConsecutiveEmptyFetches)/10
	hours := time.Since(cfg.LastActivity).Hours()
	timeFactor := 1 + hours/24

	adjusted := time.Duration(float64(base) * emptyFactor * timeFactor)
	if cap := base * 10; adjusted > cap {
		adjusted = cap
	}
	return adjusted
}

// applyThrottle multiplies interval once the empty-fetch streak reaches 5
// (§4.8 "Throttling").
func applyThrottle(cfg marketdata.TokenOhlcvConfig, interval time.Duration) time.Duration {
	if cfg.ConsecutiveEmptyFetches < 5 {
		return interval
	}
	mult := 1 + 0.5*float64(cfg.ConsecutiveEmptyFetches)
	if mult > 3.0 {
		mult = 3.0
	}
	return time.Duration(float64(interval) * mult)
}

// shouldPause reports whether a token should transition to Paused.
func shouldPause(cfg marketdata.TokenOhlcvConfig) bool {
	return cfg.ConsecutiveEmptyFetches >= 10 || time.Since(cfg.LastActivity) > 168*time.Hour
}

// ShouldRetry implements should_retry(priority, attempt) (§4.8).
func ShouldRetry(priority marketdata.Priority, attempt int) bool {
	return attempt < priority.MaxRetryAttempts()
}

// RetryDelay implements retry_delay = 2s * 2^min(attempt,5), capped at 64s.
func RetryDelay(attempt int) time.Duration {
	shift := attempt
	if shift > 5 {
		shift = 5
	}
	d := 2 * time.Second * time.Duration(uint64(1)<<uint(shift))
	if d > 64*time.Second {
		d = 64 * time.Second
	}
	return d
}

// NextInterval returns the fully throttled, priority-adjusted interval
// for mint, or false if mint is not tracked.
func (s *Scheduler) NextInterval(mint string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[mint]
	if !ok {
		return 0, false
	}
	return applyThrottle(t.cfg, AdjustedInterval(t.cfg)), true
}

// RecordFetchResult updates empty-fetch bookkeeping and drives the state
// machine after a scheduled fetch completes.
func (s *Scheduler) RecordFetchResult(mint string, gotData bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[mint]
	if !ok {
		return
	}
	if gotData {
		t.cfg.ConsecutiveEmptyFetches = 0
		if t.state == StateThrottled {
			t.state = StateActive
		}
		return
	}
	t.cfg.ConsecutiveEmptyFetches++
	switch {
	case shouldPause(t.cfg):
		t.state = StatePaused
		t.cfg.IsActive = false
	case t.cfg.ConsecutiveEmptyFetches >= 5:
		t.state = StateThrottled
	}
}
