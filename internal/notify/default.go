// internal/notify/default.go
package notify

import (
	"sync"

	"go.uber.org/zap"
)

var (
	defaultOnce   sync.Once
	defaultCenter *Center
)

// Default returns the process-wide center, creating it on first use. It
// logs through zap.L(), so install a global logger with zap.ReplaceGlobals
// before the first call to see its output.
//
// Components should receive the center they use as a dependency; Default is
// for the outermost wiring code.
func Default() *Center {
	defaultOnce.Do(func() {
		defaultCenter = New(WithLogger(zap.L()))
	})
	return defaultCenter
}
