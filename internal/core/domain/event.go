package domain

import "time"

// StopEvent is an operator or driver report that a transit stop changed
// state, e.g. a truck arriving at a hub.
type StopEvent struct {
	TrackingNumber string
	StopIndex      int
	Status         StopStatus
	Timestamp      time.Time
	Source         string
}
