package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/akarpov87/todosync/internal/errs"
)

// Config collects the fixed credential set and the reconnect budget.
type Config struct {
	Host     string
	User     string
	Password string
	Database string

	// MaxAttempts bounds each connect cycle; BaseDelay seeds the exponential
	// backoff, capped at MaxDelay.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DSN renders the pgx connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s", c.User, c.Password, c.Host, c.Database)
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 5 * time.Second
	}
	return c
}

// dialFunc opens a pool and verifies the link. Injectable for tests.
type dialFunc func(ctx context.Context, dsn string) (PgxPool, error)

func defaultDial(ctx context.Context, dsn string) (PgxPool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Conn owns the single live connection pool to the store. It implements
// PgxPool itself: a statement that fails with a transient connection error
// triggers one reconnect (bounded exponential backoff) and one retry of the
// statement, so storage hiccups surface to callers only as latency. Safe for
// concurrent use by multiple sessions.
type Conn struct {
	cfg  Config
	log  *zap.Logger
	dial dialFunc

	mu   sync.Mutex
	pool PgxPool
}

// Connect builds the connection manager and opens the initial pool. When the
// store stays unreachable past the attempt budget the returned error wraps
// errs.ErrStorageUnavailable.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Conn, error) {
	c := &Conn{cfg: cfg.withDefaults(), log: log, dial: defaultDial}
	if err := c.reconnect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// reconnect discards the current pool and dials a fresh one under the
// configured backoff budget.
func (c *Conn) reconnect(ctx context.Context) error {
	b := retry.NewExponential(c.cfg.BaseDelay)
	b = retry.WithCappedDuration(c.cfg.MaxDelay, b)
	b = retry.WithMaxRetries(uint64(c.cfg.MaxAttempts-1), b)

	var pool PgxPool
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		p, derr := c.dial(ctx, c.cfg.DSN())
		if derr != nil {
			c.log.Warn("store connect failed", zap.Error(derr))
			return retry.RetryableError(derr)
		}
		pool = p
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: connect %s/%s: %v",
			errs.ErrStorageUnavailable, c.cfg.Host, c.cfg.Database, err)
	}

	c.mu.Lock()
	old := c.pool
	c.pool = pool
	c.mu.Unlock()
	if old != nil {
		old.Close()
	}
	c.log.Info("store connected", zap.String("host", c.cfg.Host), zap.String("database", c.cfg.Database))
	return nil
}

func (c *Conn) current() PgxPool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pool
}

// recover handles a transient statement failure: log, rebuild the pool once.
func (c *Conn) recover(ctx context.Context, cause error) error {
	c.log.Warn("stale store connection, reconnecting", zap.Error(cause))
	return c.reconnect(ctx)
}

// isTransient reports whether an error indicates a dropped or stale link.
// Context cancellation is never transient.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Exec runs one autocommitted statement, retrying once after a reconnect.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := c.current().Exec(ctx, sql, args...)
	if !isTransient(err) {
		return tag, err
	}
	if rerr := c.recover(ctx, err); rerr != nil {
		return tag, rerr
	}
	return c.current().Exec(ctx, sql, args...)
}

// Query runs a SELECT, retrying once after a reconnect. Only failures of the
// call itself are retried; errors surfacing later through rows.Err() during
// iteration are returned to the caller as-is.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := c.current().Query(ctx, sql, args...)
	if !isTransient(err) {
		return rows, err
	}
	if rerr := c.recover(ctx, err); rerr != nil {
		return rows, rerr
	}
	return c.current().Query(ctx, sql, args...)
}

// QueryRow defers error reporting to Scan, so the retry lives in a row wrapper.
func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &retryRow{c: c, ctx: ctx, sql: sql, args: args, row: c.current().QueryRow(ctx, sql, args...)}
}

type retryRow struct {
	c    *Conn
	ctx  context.Context
	sql  string
	args []any
	row  pgx.Row
}

func (r *retryRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if !isTransient(err) {
		return err
	}
	if rerr := r.c.recover(r.ctx, err); rerr != nil {
		return rerr
	}
	return r.c.current().QueryRow(r.ctx, r.sql, r.args...).Scan(dest...)
}

// Ping verifies the current pool.
func (c *Conn) Ping(ctx context.Context) error { return c.current().Ping(ctx) }

// Close shuts down the live pool.
func (c *Conn) Close() {
	c.mu.Lock()
	pool := c.pool
	c.pool = nil
	c.mu.Unlock()
	if pool != nil {
		pool.Close()
	}
}
