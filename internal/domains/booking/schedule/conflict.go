package schedule

import "time"

// Slot is the schedule footprint of a booking: a room-independent date range
// with the same daily time window on every covered day.
type Slot struct {
	BookingID    string
	StartDate    time.Time
	EndDate      time.Time
	StartMinute  int
	EndMinute    int
	ActivityName string
}

// Covers reports whether the slot occupies the given calendar day.
func (s Slot) Covers(day time.Time) bool {
	d := DateOnly(day)

	return !d.Before(DateOnly(s.StartDate)) && !d.After(DateOnly(s.EndDate))
}

// Conflict describes the first clash found between a candidate slot and an
// existing booking, pinned to the day it happens on.
type Conflict struct {
	BookingID    string
	Date         time.Time
	StartMinute  int
	EndMinute    int
	ActivityName string
}

// FindConflict scans the candidate's days against existing approved slots and
// returns the first overlap, or nil when the candidate fits. Two windows
// overlap when one starts before the other ends on a shared day; touching
// endpoints do not clash, so back-to-back bookings are allowed.
func FindConflict(candidate Slot, existing []Slot) *Conflict {
	for _, day := range DatesBetween(candidate.StartDate, candidate.EndDate) {
		for _, slot := range existing {
			if !slot.Covers(day) {
				continue
			}

			if candidate.StartMinute < slot.EndMinute && candidate.EndMinute > slot.StartMinute {
				return &Conflict{
					BookingID:    slot.BookingID,
					Date:         day,
					StartMinute:  slot.StartMinute,
					EndMinute:    slot.EndMinute,
					ActivityName: slot.ActivityName,
				}
			}
		}
	}

	return nil
}
