package db

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StartHealthMonitor pings the database every interval until ctx is done,
// setting up to 1 or 0 and logging transitions. A non-positive interval
// disables the monitor.
func StartHealthMonitor(
	ctx context.Context,
	db Pinger,
	interval time.Duration,
	up prometheus.Gauge,
	log *zap.Logger,
) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		healthy := true
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, interval)
				err := db.PingContext(pingCtx)
				cancel()
				if err != nil {
					up.Set(0)
					if healthy {
						log.Error("database ping failed", zap.Error(err))
					}
					healthy = false
					continue
				}
				up.Set(1)
				if !healthy {
					log.Info("database reachable again")
				}
				healthy = true
			}
		}
	}()
}
