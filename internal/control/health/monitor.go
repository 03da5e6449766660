package health

import (
	"context"
	"sync"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
)

// UpstreamProbe issues a cheap request against the commerce API.
type UpstreamProbe interface {
	ProbeUpstream(ctx context.Context) error
}

// DraftProbe reports whether the draft store answers and how many
// drafts it holds.
type DraftProbe interface {
	ProbeDrafts(ctx context.Context) (int64, error)
}

// Monitor aggregates health status from the gateway's dependencies.
type Monitor struct {
	upstream   UpstreamProbe
	drafts     DraftProbe // nil when the draft store is disabled
	lastCheck  time.Time
	lastReport map[string]ComponentHealth
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. drafts may be nil.
func NewMonitor(upstream UpstreamProbe, drafts DraftProbe) *Monitor {
	return &Monitor{
		upstream:   upstream,
		drafts:     drafts,
		lastReport: make(map[string]ComponentHealth),
	}
}

// CheckHealth performs a health check of every dependency.
func (m *Monitor) CheckHealth(ctx context.Context) map[string]ComponentHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks (max once per 10s) to avoid spamming the upstream
	if time.Since(m.lastCheck) < 10*time.Second && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(map[string]ComponentHealth)

	upstream := ComponentHealth{
		Component: "upstream_api",
		Status:    StatusHealthy,
	}
	start := time.Now()
	if err := m.upstream.ProbeUpstream(ctx); err != nil {
		// The gateway is useless without the upstream API.
		upstream.Status = StatusCritical
		upstream.Error = err.Error()
		metrics.UpstreamHealthy.Set(0)
	} else {
		metrics.UpstreamHealthy.Set(1)
	}
	upstream.LatencyMS = time.Since(start).Milliseconds()
	report["upstream_api"] = upstream

	if m.drafts != nil {
		store := ComponentHealth{
			Component: "draft_store",
			Status:    StatusHealthy,
		}
		start = time.Now()
		count, err := m.drafts.ProbeDrafts(ctx)
		if err != nil {
			// Checkout degrades to stateless mode, browsing still works.
			store.Status = StatusDegraded
			store.Error = err.Error()
		} else {
			store.Drafts = count
			metrics.DraftsActive.Set(float64(count))
		}
		store.LatencyMS = time.Since(start).Milliseconds()
		report["draft_store"] = store
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

// Start runs periodic background checks so the cached report stays warm.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	m.CheckHealth(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckHealth(ctx)
		}
	}
}
