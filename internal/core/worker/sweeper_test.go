package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/core/config"
)

type stubDraftStore struct {
	mu        sync.Mutex
	olderThan time.Duration
	sweeps    int
	removed   int
	count     int64
	sweepErr  error
}

func (s *stubDraftStore) SweepDrafts(ctx context.Context, olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	s.olderThan = olderThan
	return s.removed, s.sweepErr
}

func (s *stubDraftStore) CountDrafts(ctx context.Context) (int64, error) {
	return s.count, nil
}

func (s *stubDraftStore) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func TestSweepUsesConfiguredTTL(t *testing.T) {
	store := &stubDraftStore{removed: 3, count: 5}
	s := NewSweeper(config.CheckoutConfig{DraftTTL: 45 * time.Minute}, store, slog.New(slog.DiscardHandler))

	s.sweep(context.Background())

	if store.sweepCount() != 1 {
		t.Fatalf("sweeps = %d", store.sweepCount())
	}
	if store.olderThan != 45*time.Minute {
		t.Errorf("olderThan = %v", store.olderThan)
	}
}

func TestSweepSurvivesStoreErrors(t *testing.T) {
	store := &stubDraftStore{sweepErr: errors.New("redis gone")}
	s := NewSweeper(config.CheckoutConfig{DraftTTL: time.Hour}, store, slog.New(slog.DiscardHandler))

	// Must not panic; the next tick simply tries again.
	s.sweep(context.Background())

	if store.sweepCount() != 1 {
		t.Fatalf("sweeps = %d", store.sweepCount())
	}
}

func TestStartDisabledWithoutTTL(t *testing.T) {
	store := &stubDraftStore{}
	s := NewSweeper(config.CheckoutConfig{}, store, slog.New(slog.DiscardHandler))

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start must return immediately when sweeping is disabled")
	}
	if store.sweepCount() != 0 {
		t.Errorf("sweeps = %d, want 0", store.sweepCount())
	}
}

func TestStartRunsInitialSweep(t *testing.T) {
	store := &stubDraftStore{}
	s := NewSweeper(config.CheckoutConfig{DraftTTL: time.Hour, SweepInterval: time.Hour}, store, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for store.sweepCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("initial sweep never ran")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	cancel()
	<-done
}
