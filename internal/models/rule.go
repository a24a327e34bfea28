package models

import "time"

// AvailabilityRule is one open working block for one weekday of a
// professional's recurring week. A professional may own any number of rules
// per weekday; overlap between rules is tolerated and merged downstream.
type AvailabilityRule struct {
	ID                  int64     `json:"id"`
	ProfessionalID      int64     `json:"professional_id"`
	Weekday             int       `json:"weekday"`    // ISO: 1 = Monday .. 7 = Sunday
	StartTime           string    `json:"start_time"` // "HH:MM", empty means malformed
	EndTime             string    `json:"end_time"`   // "HH:MM", empty means malformed
	SlotIntervalMinutes int       `json:"slot_interval_minutes"`
	CreatedAt           time.Time `json:"created_at"`
}

// Malformed reports whether the rule is missing either boundary and must be
// skipped during slot computation.
func (r AvailabilityRule) Malformed() bool {
	return r.StartTime == "" || r.EndTime == ""
}

// ISOWeekday maps time.Weekday (Sunday = 0) to ISO numbering (Monday = 1).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
