package candidex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs            []string
	username         string
	password         string
	db               int
	keyPrefix        string
	readinessTimeout time.Duration
	logger           *zap.Logger
}

// WithRedis configures the Redis connection.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithUsername sets the database username (Redis ACL).
func WithUsername(username string) Option {
	return func(c *clientConfig) {
		c.username = username
	}
}

// WithDB selects a Redis logical database.
func WithDB(db int) Option {
	return func(c *clientConfig) {
		c.db = db
	}
}

// WithKeyPrefix namespaces all keys. Default is "candidex:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// WithReadinessTimeout bounds the initial connection wait.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.readinessTimeout = d
		}
	}
}

// WithLogger attaches a logger for scoring and rule faults.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
