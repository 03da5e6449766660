package rest

import (
	"log/slog"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
)

// Timer measures one named higher-level operation end to end, retries and
// normalization included.
type Timer struct {
	name  string
	start time.Time
	log   *slog.Logger
	now   func() time.Time
}

// StartTimer begins a named timer. Stop logs the elapsed time and feeds the
// operation latency histogram.
func (c *Client) StartTimer(name string) *Timer {
	return &Timer{name: name, start: c.now(), log: c.log, now: c.now}
}

// Stop ends the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	d := t.now().Sub(t.start)
	t.log.Debug("operation finished",
		"operation", t.name,
		"duration_ms", d.Milliseconds())
	metrics.OperationDuration.WithLabelValues(t.name).Observe(d.Seconds())
	return d
}
