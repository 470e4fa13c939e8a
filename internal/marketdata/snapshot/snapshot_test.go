package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/discovery"
)

type fakeSource struct {
	calls    int32
	delay    time.Duration
	fail     bool
	descriptors []discovery.PoolDescriptor
}

func (f *fakeSource) Discover(ctx context.Context, mint string) ([]discovery.PoolDescriptor, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail {
		return nil, errors.New("source unavailable")
	}
	return f.descriptors, nil
}

func descriptorsFor(mint string) []discovery.PoolDescriptor {
	return []discovery.PoolDescriptor{
		{
			PoolID:             "7EYnhQoR9YM3N7UoaKRoA44Uy8JeaZV3qyouov87awMs",
			OwnerProgramIDHint: "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C",
			BaseMint:           marketdata.WrappedSOLMint,
			QuoteMint:          mint,
			LiquidityUSD:       5000,
		},
	}
}

func TestCacheRefreshPopulatesEntry(t *testing.T) {
	src := &fakeSource{descriptors: descriptorsFor("So11111111111111111111111111111111111111112")}
	c := New(Config{}, []discovery.Source{src}, nil, zap.NewNop())

	snap, err := c.Refresh(context.Background(), "mint1", false)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Pools, 1)
	assert.NotEmpty(t, snap.CanonicalPoolAddress)

	cached, ok := c.Get("mint1")
	assert.True(t, ok)
	assert.Equal(t, snap, cached)
}

func TestCacheGetMissesWhenNotRefreshed(t *testing.T) {
	c := New(Config{}, nil, nil, zap.NewNop())
	_, ok := c.Get("unknown")
	assert.False(t, ok)
}

func TestCacheEntryExpiresAfterTTL(t *testing.T) {
	src := &fakeSource{descriptors: descriptorsFor("mint2")}
	c := New(Config{TTL: 10 * time.Millisecond}, []discovery.Source{src}, nil, zap.NewNop())

	_, err := c.Refresh(context.Background(), "mint1", false)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("mint1")
	assert.False(t, ok)

	stale, ok := c.GetAllowStale("mint1")
	assert.True(t, ok)
	assert.NotNil(t, stale)
}

func TestCacheRefreshCoalescesConcurrentCalls(t *testing.T) {
	src := &fakeSource{delay: 30 * time.Millisecond, descriptors: descriptorsFor("mint3")}
	c := New(Config{}, []discovery.Source{src}, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Refresh(context.Background(), "mint1", false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls), "concurrent refreshes for the same mint must coalesce into one upstream fetch")
}

func TestCacheRefreshFallsBackToStaleOnTotalSourceFailure(t *testing.T) {
	goodSrc := &fakeSource{descriptors: descriptorsFor("mint4")}
	c := New(Config{TTL: time.Hour}, []discovery.Source{goodSrc}, nil, zap.NewNop())
	first, err := c.Refresh(context.Background(), "mint1", false)
	require.NoError(t, err)

	failingSrc := &fakeSource{fail: true}
	c.sources = []discovery.Source{failingSrc}

	second, err := c.Refresh(context.Background(), "mint1", true)
	require.NoError(t, err)
	assert.Equal(t, first.CanonicalPoolAddress, second.CanonicalPoolAddress)
}

func TestCacheRefreshReturnsErrorWithoutStaleFallback(t *testing.T) {
	failingSrc := &fakeSource{fail: true}
	c := New(Config{}, []discovery.Source{failingSrc}, nil, zap.NewNop())

	_, err := c.Refresh(context.Background(), "mint-never-seen", false)
	assert.ErrorIs(t, err, marketdata.ErrRPC)
}

func TestPrefetchDebouncesRepeatedCalls(t *testing.T) {
	src := &fakeSource{fail: true}
	c := New(Config{PrefetchDebounce: time.Hour}, []discovery.Source{src}, nil, zap.NewNop())

	c.Prefetch(context.Background(), []string{"mint1"})
	c.Prefetch(context.Background(), []string{"mint1"})
	time.Sleep(20 * time.Millisecond)

	assert.LessOrEqual(t, atomic.LoadInt32(&src.calls), int32(1))
}

func TestNormalizeMintTrimsAndLowercases(t *testing.T) {
	assert.Equal(t, "abc123", normalizeMint(" ABC123 "))
}
