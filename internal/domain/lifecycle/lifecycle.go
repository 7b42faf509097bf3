// Package lifecycle holds process-wide timing constants shared by startup and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds fx start and stop hooks, including HTTP shutdown and DB close.
const DefaultTimeout = 15 * time.Second
