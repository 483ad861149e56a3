package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPoolConnectTimeout = 5 * time.Second
	defaultPoolPingTimeout    = 2 * time.Second
)

// PoolConfig holds what OpenPool needs to reach postgres.
type PoolConfig struct {
	DSN            string
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

// OpenPool opens and pings the pgx pool backing the stats store and the
// health check. Zero timeouts fall back to the package defaults.
func OpenPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	connectTO := cfg.ConnectTimeout
	if connectTO == 0 {
		connectTO = defaultPoolConnectTimeout
	}
	pingTO := cfg.PingTimeout
	if pingTO == 0 {
		pingTO = defaultPoolPingTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, connectTO)
	defer cancel()

	pool, err := pgxpool.New(cctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, pingTO)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}

	return pool, nil
}
