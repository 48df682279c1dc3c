// Package timeouts provides centralized timeout values for handler operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks
//   - Short: single-document reads, user lookups
//   - Medium: order composition, listings, single writes
//   - Long: transactional writes touching several collections
//   - Extract: calls to the AI model and link scraping
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing    = 2 * time.Second
	DefaultShort   = 5 * time.Second
	DefaultMedium  = 10 * time.Second
	DefaultLong    = 30 * time.Second
	DefaultExtract = 90 * time.Second
)

// Config holds timeout configuration values.
// Zero values are ignored (current values are kept).
type Config struct {
	Ping    time.Duration
	Short   time.Duration
	Medium  time.Duration
	Long    time.Duration
	Extract time.Duration
}

func defaults() Config {
	return Config{
		Ping:    DefaultPing,
		Short:   DefaultShort,
		Medium:  DefaultMedium,
		Long:    DefaultLong,
		Extract: DefaultExtract,
	}
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

// Ping returns the timeout for health checks.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Short returns the timeout for single-document reads and user lookups.
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }

// Medium returns the timeout for order reads, listings and single writes.
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }

// Long returns the timeout for transactional multi-collection writes.
func Long() time.Duration { return get(func(c Config) time.Duration { return c.Long }) }

// Extract returns the timeout for AI extraction and link scraping.
func Extract() time.Duration { return get(func(c Config) time.Duration { return c.Extract }) }

// Configure overrides timeouts. Zero fields keep their current value.
// Call during startup before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	apply(&cur.Ping, cfg.Ping)
	apply(&cur.Short, cfg.Short)
	apply(&cur.Medium, cfg.Medium)
	apply(&cur.Long, cfg.Long)
	apply(&cur.Extract, cfg.Extract)
}

func apply(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv reads LITEGO_TIMEOUT_{PING,SHORT,MEDIUM,LONG,EXTRACT}
// as Go durations ("2s", "500ms"). Unset or invalid values are skipped.
// Returns the number of timeouts configured.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"LITEGO_TIMEOUT_PING":    &cfg.Ping,
		"LITEGO_TIMEOUT_SHORT":   &cfg.Short,
		"LITEGO_TIMEOUT_MEDIUM":  &cfg.Medium,
		"LITEGO_TIMEOUT_LONG":    &cfg.Long,
		"LITEGO_TIMEOUT_EXTRACT": &cfg.Extract,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// WithTimeout creates a context with timeout and returns a cancel function
// that logs a warning if the deadline was exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "join order")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
