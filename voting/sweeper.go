// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"
	"time"
)

// RunSweeper closes expired polls every interval until ctx is cancelled.
// Votes on an expired poll are already refused; the sweep only makes the
// stored status match.
func RunSweeper(ctx context.Context, store *Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			Sweep(ctx, store)
		}
	}
}

// Sweep runs one expiry pass and logs what it closed.
func Sweep(ctx context.Context, store *Store) int {
	closed, err := store.CloseExpired(ctx)
	for _, id := range closed {
		slog.Info("poll expired", "poll_id", id)
	}
	if err != nil && ctx.Err() == nil {
		slog.Error("expiry sweep failed", "error", err)
	}
	slog.Debug("expiry sweep finished", "closed", len(closed))
	return len(closed)
}
