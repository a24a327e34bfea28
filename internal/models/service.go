package models

import "time"

// Service is a bookable offering of a professional.
type Service struct {
	ID              int64     `json:"id" yaml:"id"`
	ProfessionalID  int64     `json:"professional_id" yaml:"professional_id"`
	Name            string    `json:"name" yaml:"name"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Price           int64     `json:"price" yaml:"price"` // minor currency units
	IsActive        bool      `json:"is_active" yaml:"is_active"`
	SortOrder       int64     `json:"sort_order" yaml:"sort_order"`
	CreatedAt       time.Time `json:"created_at" yaml:"-"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"-"`
}
