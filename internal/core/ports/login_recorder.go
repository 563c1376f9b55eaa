package ports

import "time"

// LoginEvent marks one successful authentication for a user.
type LoginEvent struct {
	UserID int64
	At     time.Time
}

// LoginRecorder accepts login events for asynchronous persistence, keeping
// the extra write off the login hot path.
type LoginRecorder interface {
	Record(event LoginEvent)
}
