package schedule

import (
	"slotbook/internal/models"
)

// BucketRulesByWeekday groups weekly rules by their ISO weekday so a range
// scan touches the rule list once instead of once per day.
func BucketRulesByWeekday(rules []models.AvailabilityRule) map[int][]models.AvailabilityRule {
	byWeekday := make(map[int][]models.AvailabilityRule)
	for _, r := range rules {
		byWeekday[r.Weekday] = append(byWeekday[r.Weekday], r)
	}
	return byWeekday
}

// BusyFromAppointments derives busy intervals from appointments that still
// occupy their window. Cancelled appointments contribute nothing.
func BusyFromAppointments(appointments []*models.Appointment) []models.BusyInterval {
	var busy []models.BusyInterval
	for _, a := range appointments {
		if !a.Occupies() {
			continue
		}
		busy = append(busy, models.BusyInterval{Start: a.StartAt, End: a.EndAt})
	}
	return busy
}

// BucketBusyByDate groups the busy intervals of occupying appointments by
// their start date ("YYYY-MM-DD").
func BucketBusyByDate(appointments []*models.Appointment) map[string][]models.BusyInterval {
	byDate := make(map[string][]models.BusyInterval)
	for _, a := range appointments {
		if !a.Occupies() {
			continue
		}
		key := a.StartAt.Format(models.DateLayout)
		byDate[key] = append(byDate[key], models.BusyInterval{Start: a.StartAt, End: a.EndAt})
	}
	return byDate
}
