package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/config"
)

// DraftStore is the slice of the draft persistence layer the sweeper
// needs. The redis client implements it.
type DraftStore interface {
	SweepDrafts(ctx context.Context, olderThan time.Duration) (int, error)
	CountDrafts(ctx context.Context) (int64, error)
}

// Sweeper deletes checkout drafts that sat untouched past their TTL.
type Sweeper struct {
	cfg   config.CheckoutConfig
	store DraftStore
	log   *slog.Logger
}

// NewSweeper creates a new Sweeper worker.
func NewSweeper(cfg config.CheckoutConfig, store DraftStore, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		cfg:   cfg,
		store: store,
		log:   log,
	}
}

// Start runs the sweeper loop.
func (s *Sweeper) Start(ctx context.Context) {
	if s.cfg.DraftTTL <= 0 {
		return // Sweeping disabled
	}

	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = min(s.cfg.DraftTTL/10, 5*time.Minute)
	}
	interval = max(interval, 30*time.Second)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial sweep
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.store.SweepDrafts(ctx, s.cfg.DraftTTL)
	if err != nil {
		s.log.Error("draft sweep failed", "error", err)
		return
	}
	if removed > 0 {
		metrics.DraftsSwept.Add(float64(removed))
		s.log.Info("swept stale checkout drafts", "removed", removed)
	}

	active, err := s.store.CountDrafts(ctx)
	if err != nil {
		s.log.Error("draft count failed", "error", err)
		return
	}
	metrics.DraftsActive.Set(float64(active))
}
