package store

import (
	"context"
	"log"
	"time"
)

// StartIdleReaper closes tables idle for longer than maxIdle, checking every
// interval. A non-positive maxIdle disables it.
func StartIdleReaper(ctx context.Context, reg *Registry, maxIdle, interval time.Duration) {
	if maxIdle <= 0 || interval <= 0 {
		log.Println("[REAPER] idle table reaper disabled")
		return
	}

	log.Printf("[REAPER] idle table reaper started (max_idle=%s interval=%s)", maxIdle, interval)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] idle table reaper stopping")
				return
			case <-ticker.C:
				if n := reg.CloseIdle(reg.lifecycle.Now(), maxIdle); n > 0 {
					log.Printf("[REAPER] closed %d idle tables (%d open)", n, reg.Count())
				}
			}
		}
	}()
}
