package models

import "time"

// DaemonInfo describes a live daemon as seen from a client process.
// It is assembled from the liveness record and endpoint descriptor.
type DaemonInfo struct {
	PID       int
	Socket    string
	StartedAt time.Time
}
