package database

import "errors"

var (
	// ErrSlotTaken surfaces a lost booking race: the window was occupied
	// between the caller's slot computation and the commit attempt.
	ErrSlotTaken = errors.New("time window is already booked")

	// ErrServiceNotFound covers unknown service ids and services that belong
	// to a different professional.
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidRange means the requested end date precedes the start date.
	ErrInvalidRange = errors.New("end date precedes start date")

	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrUnknownStatus rejects status values outside the four known ones.
	ErrUnknownStatus = errors.New("unknown appointment status")
)
