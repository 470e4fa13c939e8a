package ohlcv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
)

func TestPriorityScoreBands(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		cfg  marketdata.TokenOhlcvConfig
		want marketdata.Priority
	}{
		{"open position is critical", marketdata.TokenOhlcvConfig{IsOpenPosition: true, LastActivity: now}, marketdata.PriorityCritical},
		{"high views+trades", marketdata.TokenOhlcvConfig{RecentViews: 6, RecentTrades: 0, LastActivity: now}, marketdata.PriorityHigh},
		{"medium activity", marketdata.TokenOhlcvConfig{RecentViews: 1, LastActivity: now}, marketdata.PriorityMedium},
		{"no activity is low", marketdata.TokenOhlcvConfig{LastActivity: now}, marketdata.PriorityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scoreToPriority(priorityScore(tc.cfg))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPriorityScoreDecaysWithInactivity(t *testing.T) {
	fresh := marketdata.TokenOhlcvConfig{IsOpenPosition: true, LastActivity: time.Now()}
	stale := marketdata.TokenOhlcvConfig{IsOpenPosition: true, LastActivity: time.Now().Add(-48 * time.Hour)}
	assert.Greater(t, priorityScore(fresh), priorityScore(stale))
}

func TestAdjustedIntervalCapsAtTenTimesBase(t *testing.T) {
	cfg := marketdata.TokenOhlcvConfig{
		Priority:                marketdata.PriorityLow,
		ConsecutiveEmptyFetches: 1000,
		LastActivity:            time.Now().Add(-1000 * time.Hour),
	}
	adjusted := AdjustedInterval(cfg)
	assert.Equal(t, cfg.Priority.BaseInterval()*10, adjusted)
}

func TestApplyThrottleMultiplierCapsAtThree(t *testing.T) {
	base := time.Minute
	cfg := marketdata.TokenOhlcvConfig{ConsecutiveEmptyFetches: 100}
	assert.Equal(t, base*3, applyThrottle(cfg, base))
}

func TestApplyThrottleNoEffectBelowThreshold(t *testing.T) {
	base := time.Minute
	cfg := marketdata.TokenOhlcvConfig{ConsecutiveEmptyFetches: 4}
	assert.Equal(t, base, applyThrottle(cfg, base))
}

func TestRetryDelayCapsAtSixtyFourSeconds(t *testing.T) {
	assert.Equal(t, 2*time.Second, RetryDelay(0))
	assert.Equal(t, 64*time.Second, RetryDelay(5))
	assert.Equal(t, 64*time.Second, RetryDelay(20))
}

func TestShouldRetryRespectsPerPriorityBudget(t *testing.T) {
	assert.True(t, ShouldRetry(marketdata.PriorityCritical, 4))
	assert.False(t, ShouldRetry(marketdata.PriorityCritical, 5))
	assert.False(t, ShouldRetry(marketdata.PriorityLow, 1))
}

func TestSchedulerStateMachine(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.Track("mint1", []string{"pool1"})

	for i := 0; i < 5; i++ {
		s.RecordFetchResult("mint1", false)
	}
	state, ok := s.State("mint1")
	assert.True(t, ok)
	assert.Equal(t, StateThrottled, state)

	for i := 0; i < 5; i++ {
		s.RecordFetchResult("mint1", false)
	}
	state, _ = s.State("mint1")
	assert.Equal(t, StatePaused, state)

	s.OnActivity("mint1", ActivityPositionOpened)
	state, _ = s.State("mint1")
	assert.Equal(t, StateActive, state)
	cfg, _ := s.Config("mint1")
	assert.Equal(t, marketdata.PriorityCritical, cfg.Priority)
	assert.Equal(t, 0, cfg.ConsecutiveEmptyFetches)
}

func TestOnActivityReshapesPriority(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.Track("mint1", nil)

	s.OnActivity("mint1", ActivityPositionOpened)
	cfg, _ := s.Config("mint1")
	assert.Equal(t, marketdata.PriorityCritical, cfg.Priority)

	s.OnActivity("mint1", ActivityPositionClosed)
	cfg, _ = s.Config("mint1")
	assert.Equal(t, marketdata.PriorityHigh, cfg.Priority)
	assert.False(t, cfg.IsOpenPosition)

	s.OnActivity("mint1", ActivityDataRequested)
	cfg, _ = s.Config("mint1")
	assert.Equal(t, marketdata.PriorityHigh, cfg.Priority)
}

func TestTrackIsIdempotent(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.Track("mint1", []string{"poolA"})
	s.OnActivity("mint1", ActivityPositionOpened)
	s.Track("mint1", []string{"poolB"})

	cfg, ok := s.Config("mint1")
	assert.True(t, ok)
	assert.Equal(t, marketdata.PriorityCritical, cfg.Priority, "second Track must not reset existing state")
}
