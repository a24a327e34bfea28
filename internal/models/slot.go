package models

// Slot is an ephemeral bookable window produced by the slot calculator.
// It is never persisted; the status field exists for caller convenience and
// is always "available" when emitted.
type Slot struct {
	Time   string `json:"time"` // "HH:MM"
	Status string `json:"status"`
}
