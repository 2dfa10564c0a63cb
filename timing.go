// FILE: lixenwraith/conftree/timing.go
package conftree

import "time"

// Core timing constants for production use.
const (
	MinDebounce          = 10 * time.Millisecond  // Hard floor for change coalescence
	ShutdownTimeout      = 100 * time.Millisecond // Graceful watcher termination window
	DefaultDebounce      = 500 * time.Millisecond // File change coalescence period
	DefaultReloadTimeout = 5 * time.Second        // Maximum duration for reload operations
)

// debounceSettleMultiplier ensures sufficient time for debounce to complete
const debounceSettleMultiplier = 3
