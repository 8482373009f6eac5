// Package cliconfig parses the backtest CLI's flags and environment
// variables, in the teacher's flag-plus-env-default style, with optional
// .env loading via godotenv.
package cliconfig

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/backtest needs to wire up a run.
type Config struct {
	// Data
	DataDir     string
	DatetimeFmt string

	// Simulation
	Start           time.Time
	End             time.Time
	Seed            int64
	TradingInterval time.Duration
	DataDelayMs     int
	MessageLatencyMs int
	FieldOpTimeoutMs int
	Principal       float64
	Verbosity       string

	// Result store (opt-in: active only when MongoURI is set)
	MongoURI string
	RunID    string

	// Live feed (opt-in: active only when RedisURL is set)
	RedisURL     string
	RedisChannel string

	// Monitor (opt-in: active only when MonitorPort is non-zero)
	MonitorPort int
	MonitorHost string
}

// Load parses .env (if present), then flags (falling back to environment
// variables, then hardcoded defaults) into a Config.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{}

	flag.StringVar(&c.DataDir, "data-dir", envStr("LATTICEBT_DATA_DIR", "./data"), "directory of per-asset CSV bar files")
	flag.StringVar(&c.DatetimeFmt, "datetime-fmt", envStr("LATTICEBT_DATETIME_FMT", "2006-01-02 15:04:05"), "Go time layout for the datetime column")

	startRaw := flag.String("start", envStr("LATTICEBT_START", ""), "backtest start datetime, in -datetime-fmt layout")
	endRaw := flag.String("end", envStr("LATTICEBT_END", ""), "backtest end datetime, in -datetime-fmt layout")

	flag.Int64Var(&c.Seed, "seed", envInt64("LATTICEBT_SEED", 0), "PRNG seed (0 = time-based)")
	flag.DurationVar(&c.TradingInterval, "trading-interval", envDuration("LATTICEBT_TRADING_INTERVAL", 390*time.Minute), "duration between bar starts")
	flag.IntVar(&c.DataDelayMs, "data-delay-ms", envInt("LATTICEBT_DATA_DELAY_MS", 100), "data delay in milliseconds")
	flag.IntVar(&c.MessageLatencyMs, "message-latency-ms", envInt("LATTICEBT_MESSAGE_LATENCY_MS", 100), "message latency in milliseconds")
	flag.IntVar(&c.FieldOpTimeoutMs, "field-op-timeout-ms", envInt("LATTICEBT_FIELD_OP_TIMEOUT_MS", 100), "field operation wall-clock timeout in milliseconds")
	flag.Float64Var(&c.Principal, "principal", envFloat("LATTICEBT_PRINCIPAL", 100000), "starting buying power")
	flag.StringVar(&c.Verbosity, "verbosity", envStr("LATTICEBT_VERBOSITY", "NONE"), "log verbosity: NONE, WARNING, DEBUG, TRANSACTIONS, INFO")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", ""), "MongoDB URI for completed-run history (empty = disabled)")
	flag.StringVar(&c.RunID, "run-id", envStr("LATTICEBT_RUN_ID", ""), "identifier to persist this run under")

	flag.StringVar(&c.RedisURL, "redis-url", envStr("REDIS_URL", ""), "Redis URL for live snapshot publishing (empty = disabled)")
	flag.StringVar(&c.RedisChannel, "redis-channel", envStr("REDIS_CHANNEL", "latticebt:snapshots"), "Redis channel for published snapshots")

	flag.IntVar(&c.MonitorPort, "monitor-port", envInt("LATTICEBT_MONITOR_PORT", 0), "HTTP port for the live monitor (0 = disabled)")
	flag.StringVar(&c.MonitorHost, "monitor-host", envStr("LATTICEBT_MONITOR_HOST", "0.0.0.0"), "listen host for the live monitor")

	flag.Parse()

	if *startRaw != "" {
		if t, err := time.Parse(c.DatetimeFmt, *startRaw); err == nil {
			c.Start = t
		}
	}
	if *endRaw != "" {
		if t, err := time.Parse(c.DatetimeFmt, *endRaw); err == nil {
			c.End = t
		}
	}

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
