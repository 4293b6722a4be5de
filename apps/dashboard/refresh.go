package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/ratiba/core"
)

// reloader refetches the viewed schedule.
type reloader interface {
	Reload(ctx context.Context) error
}

// startRefresh reloads the schedule on the given cron spec (eg. "*/15 * * * *").
// Each reload is bounded by timeout when it is positive.
func startRefresh(spec string, timeout time.Duration, r reloader, logger core.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := r.Reload(ctx); err != nil {
			logger.Warn("dashboard: scheduled refresh failed", err)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid refresh schedule %q", spec)
	}
	c.Start()
	return c, nil
}
