package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/okarhu/locboard/internal/metrics"
	"github.com/okarhu/locboard/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a background cron that refreshes the locations/visits gauges
// from the database on the given schedule (e.g. "@every 1m"). It is read-only
// and best-effort; a failed refresh is logged and retried at the next tick.
// Returns the cron so the caller can Stop it on shutdown.
func Run(locations *repo.LocationRepo, spec string) (*cron.Cron, error) {
	c := cron.New()

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		locs, visits, err := locations.Counts(ctx)
		if err != nil {
			slog.Warn("stats refresh failed", "error", err)
			return
		}
		metrics.SetStats(locs, visits)
	}

	if _, err := c.AddFunc(spec, refresh); err != nil {
		return nil, err
	}

	// Prime the gauges before the first tick.
	refresh()
	c.Start()

	return c, nil
}
