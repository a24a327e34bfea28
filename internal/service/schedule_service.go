package service

import (
	"context"
	"errors"
	"time"

	"slotbook/internal/database"
	"slotbook/internal/domain"
	"slotbook/internal/metrics"
	"slotbook/internal/models"
	"slotbook/internal/schedule"

	"github.com/rs/zerolog"
)

// ErrRangeTooLong rejects range queries longer than the configured limit.
var ErrRangeTooLong = errors.New("requested date range is too long")

// ScheduleService computes offerable slots. It is read-only: a returned slot
// list is a hint for the caller, never a reservation.
type ScheduleService struct {
	repo         domain.Repository
	maxRangeDays int
	logger       *zerolog.Logger
}

func NewScheduleService(repo domain.Repository, maxRangeDays int, logger *zerolog.Logger) *ScheduleService {
	if maxRangeDays <= 0 {
		maxRangeDays = models.DefaultMaxRangeDays
	}
	return &ScheduleService{repo: repo, maxRangeDays: maxRangeDays, logger: logger}
}

func (s *ScheduleService) GetSlotsForDate(ctx context.Context, professionalID int64, date time.Time, serviceDurationMinutes int) ([]string, error) {
	rules, err := s.repo.GetWeeklyRules(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.GetAppointmentsForDate(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	busy := schedule.BusyFromAppointments(appointments)
	metrics.IncSlotComputation()
	return schedule.ComputeDaySlots(rules, busy, date, serviceDurationMinutes), nil
}

// GetSlotsForRange drives the day calculator across [start, end] inclusive.
// Rules are bucketed by weekday and appointments by date once, so the store
// is touched twice regardless of the number of days.
func (s *ScheduleService) GetSlotsForRange(ctx context.Context, professionalID int64, start, end time.Time, serviceDurationMinutes int) (map[string][]models.Slot, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	if endDay.Before(startDay) {
		return nil, database.ErrInvalidRange
	}
	if days := int(endDay.Sub(startDay).Hours()/24) + 1; days > s.maxRangeDays {
		return nil, ErrRangeTooLong
	}

	rules, err := s.repo.GetWeeklyRules(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	appointments, err := s.repo.GetAppointmentsInRange(ctx, professionalID, startDay, endDay)
	if err != nil {
		return nil, err
	}

	byWeekday := schedule.BucketRulesByWeekday(rules)
	busyByDate := schedule.BucketBusyByDate(appointments)

	result := make(map[string][]models.Slot)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(models.DateLayout)
		metrics.IncSlotComputation()
		times := schedule.ComputeDaySlots(byWeekday[models.ISOWeekday(day)], busyByDate[key], day, serviceDurationMinutes)

		// Days without a matching rule yield an empty list, not an error.
		slots := make([]models.Slot, 0, len(times))
		for _, clock := range times {
			slots = append(slots, models.Slot{Time: clock, Status: models.SlotStatusAvailable})
		}
		result[key] = slots
	}
	return result, nil
}

// SaveWeeklySchedule replaces the professional's weekly rules wholesale.
func (s *ScheduleService) SaveWeeklySchedule(ctx context.Context, professionalID int64, rules []models.AvailabilityRule) error {
	malformed := 0
	for _, r := range rules {
		if r.Malformed() {
			malformed++
		}
	}
	if malformed > 0 {
		// Stored as-is; the calculator skips them at read time.
		s.logger.Debug().Int64("professional_id", professionalID).Int("malformed", malformed).Msg("saving schedule with malformed rules")
	}

	return s.repo.ReplaceWeeklyRules(ctx, professionalID, rules)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
