// Package timeouts defines the durations shared by diamond commands and
// storage.
package timeouts

import "time"

// TelemetryShutdown bounds the span flush when a command exits.
const TelemetryShutdown = 5 * time.Second

// SQLiteBusy is how long a writer waits on a locked database.
const SQLiteBusy = 5 * time.Second

// Millis renders d for DSN parameters that take milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}
