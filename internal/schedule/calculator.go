package schedule

import (
	"sort"
	"time"

	"slotbook/internal/models"
)

// ComputeDaySlots turns the weekly rules matching date's weekday plus the
// day's busy intervals into the ordered, deduplicated list of offerable slot
// start times ("HH:MM"). Pure function: deterministic, no I/O.
//
// Rules missing either boundary are skipped. The presentation interval
// defaults to 15 minutes; a positive interval on any matching rule overrides
// it for the whole day, last rule wins (rules arrive ordered by id, so the
// override is deterministic).
func ComputeDaySlots(rules []models.AvailabilityRule, busy []models.BusyInterval, date time.Time, serviceDurationMinutes int) []string {
	if serviceDurationMinutes <= 0 {
		return nil
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	weekday := models.ISOWeekday(day)

	type block struct {
		start, end time.Time
	}

	interval := time.Duration(models.DefaultSlotInterval) * time.Minute
	var blocks []block
	for _, r := range rules {
		if r.Weekday != weekday {
			continue
		}
		if r.Malformed() {
			continue
		}
		startOff, ok := clockOffset(r.StartTime)
		if !ok {
			continue
		}
		endOff, ok := clockOffset(r.EndTime)
		if !ok {
			continue
		}
		if r.SlotIntervalMinutes > 0 {
			interval = time.Duration(r.SlotIntervalMinutes) * time.Minute
		}
		blocks = append(blocks, block{start: day.Add(startOff), end: day.Add(endOff)})
	}

	duration := time.Duration(serviceDurationMinutes) * time.Minute
	seen := make(map[string]struct{})
	var out []string

	for _, b := range blocks {
		cursor := b.start
		for !cursor.Add(duration).After(b.end) {
			if hit, overlapped := firstOverlap(busy, cursor, cursor.Add(duration)); overlapped {
				// Greedy skip: jump past the busy interval instead of
				// stepping through known-busy time.
				cursor = hit.End
			} else {
				key := cursor.Format(models.ClockLayout)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					out = append(out, key)
				}
				cursor = cursor.Add(interval)
			}
			// Adjacent or overlapping busy intervals can leave the cursor
			// strictly inside another one; keep jumping until it is clear.
			for {
				inside, contained := containing(busy, cursor)
				if !contained {
					break
				}
				cursor = inside.End
			}
		}
	}

	sort.Strings(out)
	return out
}

func clockOffset(clock string) (time.Duration, bool) {
	t, err := time.Parse(models.ClockLayout, clock)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

func firstOverlap(busy []models.BusyInterval, start, end time.Time) (models.BusyInterval, bool) {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return b, true
		}
	}
	return models.BusyInterval{}, false
}

func containing(busy []models.BusyInterval, t time.Time) (models.BusyInterval, bool) {
	for _, b := range busy {
		if b.Contains(t) {
			return b, true
		}
	}
	return models.BusyInterval{}, false
}
