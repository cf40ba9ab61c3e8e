package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataDir       string        // directory holding the persisted JSON blobs
	SeedFile      string        // path to a seed.yaml file (optional, empty = no seeding)
	RetentionDays int           // default trash retention for fresh installs
	SweepInterval time.Duration // interval between trash expiry sweeps (default: 1h)

	// Sync
	UserID            string        // remote identity; empty = signed out, sync disabled
	SyncCheckInterval time.Duration // how often the auto-sync check fires (default: 15m)
	AutoSyncInterval  time.Duration // minimum spacing between auto syncs (default: 24h)
	SyncTimeout       time.Duration // per-sync deadline (default: 30s)

	// Remote backend: "redis" | "sqlite" | "memory"
	RemoteBackend string
	SQLitePath    string // used when RemoteBackend=sqlite

	// Redis (used when RemoteBackend=redis)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STASH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("STASH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("STASH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STASH_PRETTY_LOG", true),

		// Local state
		DataDir:       requireEnv("STASH_DATA_DIR"),
		SeedFile:      getenv("STASH_SEED_FILE", ""), // Optional, empty = no seeding
		RetentionDays: getenvInt("STASH_RETENTION_DAYS", 30),
		SweepInterval: mustDuration("STASH_SWEEP_INTERVAL", time.Hour),

		// Sync
		UserID:            getenv("STASH_USER_ID", ""),
		SyncCheckInterval: mustDuration("STASH_SYNC_CHECK_INTERVAL", 15*time.Minute),
		AutoSyncInterval:  mustDuration("STASH_AUTO_SYNC_INTERVAL", 24*time.Hour),
		SyncTimeout:       mustDuration("STASH_SYNC_TIMEOUT", 30*time.Second),

		// Remote store
		RemoteBackend: getenv("STASH_REMOTE_BACKEND", "memory"),
		SQLitePath:    getenv("STASH_SQLITE_PATH", ""),

		// Redis settings
		RedisAddr:             getenv("STASH_REDIS_ADDR", ""),
		RedisUser:             getenv("STASH_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("STASH_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("STASH_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("STASH_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	switch cfg.RemoteBackend {
	case "redis":
		if cfg.RedisAddr == "" {
			panic("❌ FATAL: STASH_REDIS_ADDR is required when STASH_REMOTE_BACKEND=redis")
		}
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: STASH_REDIS_PASSWORD is required when STASH_REDIS_PASSWORD_REQUIRED=true")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			panic("❌ FATAL: STASH_SQLITE_PATH is required when STASH_REMOTE_BACKEND=sqlite")
		}
	case "memory":
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown STASH_REMOTE_BACKEND %q (want redis, sqlite or memory)", cfg.RemoteBackend))
	}

	if cfg.RetentionDays < 1 {
		panic("❌ FATAL: STASH_RETENTION_DAYS must be at least 1")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
