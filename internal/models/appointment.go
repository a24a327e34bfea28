package models

import "time"

type Appointment struct {
	ID             int64     `json:"id"`
	PublicID       string    `json:"public_id"`
	ProfessionalID int64     `json:"professional_id"`
	ServiceID      int64     `json:"service_id"`
	ServiceName    string    `json:"service_name"`
	ClientName     string    `json:"client_name"`
	ClientEmail    string    `json:"client_email"`
	ClientPhone    string    `json:"client_phone"`
	SubjectRef     string    `json:"subject_ref,omitempty"` // domain-specific resource (pet, room), opaque here
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Status         string    `json:"status"` // pending, confirmed, cancelled, completed
	PriceAtBooking int64     `json:"price_at_booking"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Occupies reports whether the appointment still blocks its time window.
// Cancelled appointments free the window; every other status keeps it busy.
func (a *Appointment) Occupies() bool {
	return a.Status != StatusCancelled
}

// BookingRequest carries everything the booking arbiter needs to commit one
// specific window. Client identity is already resolved by the caller.
type BookingRequest struct {
	ProfessionalID int64     `json:"professional_id"`
	ServiceID      int64     `json:"service_id"`
	StartAt        time.Time `json:"start_at"`
	ClientName     string    `json:"client_name"`
	ClientEmail    string    `json:"client_email"`
	ClientPhone    string    `json:"client_phone"`
	SubjectRef     string    `json:"subject_ref,omitempty"`
}

// BusyInterval is a read-only projection of an appointment's [start, end) window.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// Contains reports whether t falls strictly inside the interval.
func (b BusyInterval) Contains(t time.Time) bool {
	return t.After(b.Start) && t.Before(b.End)
}
