package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/token"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubSource) FetchPrices(ctx context.Context, pair domain.Pair) (*domain.PriceObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewPriceObservation(pair, decimal.NewFromInt(100), decimal.NewFromInt(1), "stub"), nil
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func wethUSDC() domain.Pair {
	return domain.NewPair(token.WETH, token.USDC)
}

func newTestService(t *testing.T, source Source, ttl time.Duration) *PricingService {
	t.Helper()
	s := NewPricingService(source, ttl, logger.New(io.Discard, logger.LevelError, "test", nil))
	t.Cleanup(s.Close)
	return s
}

func TestFetchPricesCaches(t *testing.T) {
	source := &stubSource{}
	s := newTestService(t, source, time.Minute)
	ctx := context.Background()

	first, err := s.FetchPrices(ctx, wethUSDC())
	if err != nil {
		t.Fatalf("FetchPrices() error = %v", err)
	}
	second, err := s.FetchPrices(ctx, wethUSDC())
	if err != nil {
		t.Fatalf("FetchPrices() error = %v", err)
	}

	if source.callCount() != 1 {
		t.Errorf("source called %d times, want 1 (second hit cached)", source.callCount())
	}
	if first != second {
		t.Error("cached call returned a different observation")
	}
}

func TestFetchPricesPropagatesError(t *testing.T) {
	source := &stubSource{err: errors.New("upstream down")}
	s := newTestService(t, source, time.Minute)

	if _, err := s.FetchPrices(context.Background(), wethUSDC()); err == nil {
		t.Error("expected error from failing source")
	}
}

func TestScanPairsSkipsFailures(t *testing.T) {
	source := &stubSource{err: errors.New("upstream down")}
	s := newTestService(t, source, time.Minute)

	obs := s.ScanPairs(context.Background(), []domain.Pair{wethUSDC()}, nil)
	if len(obs) != 0 {
		t.Errorf("ScanPairs() returned %d observations from a failing source, want 0", len(obs))
	}
}

func TestScanPairsProgress(t *testing.T) {
	source := &stubSource{}
	s := newTestService(t, source, time.Minute)

	pairs := []domain.Pair{
		wethUSDC(),
		domain.NewPair(token.ETH, token.USDT),
		domain.NewPair(token.WBTC, token.DAI),
	}

	var progress [][2]int
	obs := s.ScanPairs(context.Background(), pairs, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})

	if len(obs) != 3 {
		t.Fatalf("ScanPairs() = %d observations, want 3", len(obs))
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(progress) != len(want) {
		t.Fatalf("progress calls = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}
}

func TestScanPairsStopsOnCancel(t *testing.T) {
	source := &stubSource{}
	s := newTestService(t, source, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	obs := s.ScanPairs(ctx, []domain.Pair{wethUSDC()}, nil)
	if len(obs) != 0 {
		t.Errorf("ScanPairs() after cancel = %d observations, want 0", len(obs))
	}
	if source.callCount() != 0 {
		t.Errorf("source called %d times after cancel, want 0", source.callCount())
	}
}
