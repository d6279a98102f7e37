package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const MountIDKey ctxKey = "mount_id"

// WithMountID tags ctx so timings from one widget mount can be correlated.
func WithMountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, MountIDKey, id)
}

// MountID returns the mount id stored in ctx, or "".
func MountID(ctx context.Context) string {
	id, _ := ctx.Value(MountIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func is called.
// Typical use: defer obs.Time(ctx, logger, "osrm.Alternatives")(&err)
func Time(ctx context.Context, logger *slog.Logger, name string) func(errp *error) {
	start := time.Now()
	if logger == nil {
		logger = slog.Default()
	}

	mountID := MountID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "op failed",
				slog.String("mount_id", mountID),
				slog.String("op", name),
				slog.Int64("dur_ms", dur.Milliseconds()),
				slog.String("err", (*errp).Error()),
			)
			return
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "op done",
			slog.String("mount_id", mountID),
			slog.String("op", name),
			slog.Int64("dur_ms", dur.Milliseconds()),
		)
	}
}
