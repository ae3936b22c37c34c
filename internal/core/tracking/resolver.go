// Package tracking derives the customer-facing status of a shipment from its
// planned transit stops.
//
// The derivation is a pure function of the stops, the booking time and the
// evaluation instant. Callers pass now explicitly; nothing here reads the
// clock.
package tracking

import (
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// DisplayStatus is the coarse status shown on the public tracking page.
type DisplayStatus string

const (
	BookingConfirmed DisplayStatus = "Booking Confirmed"
	InTransit        DisplayStatus = "In Transit"
	AtStop           DisplayStatus = "At Stop"
	Delivered        DisplayStatus = "Delivered"
)

// Resolution is the outcome of Resolve. Index is the position in the stop
// list that Location was taken from, or -1 when the list is empty.
type Resolution struct {
	Status   DisplayStatus
	Location string
	Index    int
}

// Resolve computes the display status and current location.
//
// An operator-confirmed stop (arrived, departed or completed) always wins:
// the last such stop in list order is reported as In Transit at that stop.
// Otherwise now is compared against each stop's expected window in list
// order. Stops are never re-sorted by time.
//
// bookingDate is accepted for parity with the stored record; the schedule
// pass does not consult it.
func Resolve(stops []domain.TransitStop, bookingDate, now time.Time) Resolution {
	if len(stops) == 0 {
		return Resolution{Status: BookingConfirmed, Index: -1}
	}

	for i := len(stops) - 1; i >= 0; i-- {
		if stops[i].Status.IsConfirmed() {
			return Resolution{Status: InTransit, Location: stops[i].Location, Index: i}
		}
	}

	for i, s := range stops {
		if now.Before(s.ExpectedArrival) {
			if i == 0 {
				return Resolution{Status: BookingConfirmed, Location: s.Location, Index: 0}
			}
			return Resolution{Status: InTransit, Location: stops[i-1].Location, Index: i - 1}
		}
		if !now.After(s.ExpectedDeparture) {
			return Resolution{Status: AtStop, Location: s.Location, Index: i}
		}
	}

	last := len(stops) - 1
	return Resolution{Status: Delivered, Location: stops[last].Location, Index: last}
}

// Progress is the fraction of the route covered, in [0, 1]. A route with
// fewer than two stops reports 0.
func Progress(stops []domain.TransitStop, r Resolution) float64 {
	if len(stops) < 2 || r.Index < 0 {
		return 0
	}
	return float64(r.Index) / float64(len(stops)-1)
}

// StopState marks a stop on the timeline.
type StopState string

const (
	StopDone     StopState = "done"
	StopCurrent  StopState = "current"
	StopUpcoming StopState = "upcoming"
)

// TimelineEntry is one row of the tracking timeline.
type TimelineEntry struct {
	domain.TransitStop
	State StopState
}

// Timeline annotates each stop relative to the resolved position. When the
// shipment is delivered every stop is done.
func Timeline(stops []domain.TransitStop, r Resolution) []TimelineEntry {
	out := make([]TimelineEntry, len(stops))
	for i, s := range stops {
		state := StopUpcoming
		switch {
		case r.Status == Delivered || i < r.Index:
			state = StopDone
		case i == r.Index && r.Status != BookingConfirmed:
			state = StopCurrent
		}
		out[i] = TimelineEntry{TransitStop: s, State: state}
	}
	return out
}
