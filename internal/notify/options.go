// internal/notify/options.go
package notify

import "go.uber.org/zap"

// DefaultQueueSize is the capacity of the posted event queue.
const DefaultQueueSize = 1024

// Option configures a Center.
type Option func(*centerConfig)

type centerConfig struct {
	logger          *zap.Logger
	debug           bool
	lifecycleEvents bool
	queueSize       int
}

func defaultCenterConfig() centerConfig {
	return centerConfig{
		logger:    zap.NewNop(),
		queueSize: DefaultQueueSize,
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(c *centerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables the verbose activity stream: every register, connect,
// disconnect and dispatch is logged at debug level.
func WithDebug(enabled bool) Option {
	return func(c *centerConfig) {
		c.debug = enabled
	}
}

// WithLifecycleEvents makes the center post EventRegistered, EventConnected
// and EventDisconnected notifications.
func WithLifecycleEvents(enabled bool) Option {
	return func(c *centerConfig) {
		c.lifecycleEvents = enabled
	}
}

// WithQueueSize sets the posted queue capacity. Values below 1 are ignored.
func WithQueueSize(size int) Option {
	return func(c *centerConfig) {
		if size > 0 {
			c.queueSize = size
		}
	}
}
