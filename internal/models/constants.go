package models

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// IsKnownStatus reports whether s is one of the four appointment statuses.
func IsKnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const (
	// DefaultSlotInterval шаг показа слотов по умолчанию, минуты
	DefaultSlotInterval = 15

	// DateLayout формат дат во внешних интерфейсах
	DateLayout = "2006-01-02"

	// ClockLayout формат времени начала слота
	ClockLayout = "15:04"

	// DefaultCatalogCacheTTL время жизни кэша услуг
	DefaultCatalogCacheTTL = 30 * time.Minute

	// NotifyQueueSize размер очереди уведомлений
	NotifyQueueSize = 1000

	// DefaultMaxRangeDays максимальная длина запрашиваемого диапазона дат
	DefaultMaxRangeDays = 92
)

const (
	SlotStatusAvailable = "available"
)
