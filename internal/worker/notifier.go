package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

// notifyTask is one message waiting for delivery.
type notifyTask struct {
	Recipient string
	Subject   string
	Body      string
}

// Notifier turns appointment events into client messages. Delivery runs on a
// single goroutine fed by a buffered queue; a full queue drops the message
// rather than blocking the publisher.
type Notifier struct {
	mailer domain.Mailer
	retry  RetryPolicy
	queue  chan notifyTask
	logger *zerolog.Logger
}

func NewNotifier(mailer domain.Mailer, retry RetryPolicy, queueSize int, logger *zerolog.Logger) *Notifier {
	if retry.Attempts == 0 {
		retry.Attempts = 3
	}
	if retry.BaseDelay == 0 {
		retry.BaseDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if queueSize <= 0 {
		queueSize = models.NotifyQueueSize
	}

	return &Notifier{
		mailer: mailer,
		retry:  retry,
		queue:  make(chan notifyTask, queueSize),
		logger: logger,
	}
}

// BindTo subscribes the notifier to appointment events on the bus.
func (n *Notifier) BindTo(bus *events.EventBus) {
	bus.Subscribe(events.EventAppointmentCreated, n.onAppointmentEvent)
	bus.Subscribe(events.EventAppointmentStatusChanged, n.onAppointmentEvent)
}

func (n *Notifier) onAppointmentEvent(event *events.Event) error {
	var payload events.AppointmentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("notifier: decode event")
		return err
	}

	if payload.ClientEmail == "" {
		n.logger.Debug().Int64("appointment_id", payload.AppointmentID).Msg("notifier: no recipient, skipping")
		return nil
	}

	task := notifyTask{
		Recipient: payload.ClientEmail,
		Subject:   subjectFor(event.Type, payload),
		Body:      bodyFor(event.Type, payload),
	}

	select {
	case n.queue <- task:
	default:
		n.logger.Warn().Int64("appointment_id", payload.AppointmentID).Msg("notifier: queue full, message dropped")
	}
	return nil
}

// Start runs the delivery loop until ctx is done.
func (n *Notifier) Start(ctx context.Context) {
	n.logger.Info().Msg("notifier: started")
	defer n.logger.Info().Msg("notifier: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-n.queue:
			n.deliver(ctx, task)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, task notifyTask) {
	var lastErr error
	for attempt := 1; attempt <= n.retry.Attempts; attempt++ {
		err := n.mailer.Send(ctx, task.Recipient, task.Subject, task.Body)
		if err == nil {
			return
		}
		lastErr = err

		if attempt == n.retry.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(n.retry.Delay(attempt)):
		}
	}

	n.logger.Error().Err(lastErr).Str("recipient", task.Recipient).Str("subject", task.Subject).Msg("notifier: delivery failed")
}

func subjectFor(eventType string, payload events.AppointmentEventPayload) string {
	switch eventType {
	case events.EventAppointmentCreated:
		return fmt.Sprintf("Запись на %s принята", payload.ServiceName)
	case events.EventAppointmentStatusChanged:
		switch payload.Status {
		case models.StatusConfirmed:
			return fmt.Sprintf("Запись на %s подтверждена", payload.ServiceName)
		case models.StatusCancelled:
			return fmt.Sprintf("Запись на %s отменена", payload.ServiceName)
		}
		return fmt.Sprintf("Запись на %s: статус %s", payload.ServiceName, payload.Status)
	}
	return "Запись обновлена"
}

func bodyFor(eventType string, payload events.AppointmentEventPayload) string {
	when := payload.StartAt.Format("02.01.2006 15:04")
	if eventType == events.EventAppointmentCreated {
		return fmt.Sprintf("%s, ваша запись на %s создана: %s. Номер записи: %s.",
			payload.ClientName, payload.ServiceName, when, payload.PublicID)
	}
	return fmt.Sprintf("%s, статус вашей записи на %s (%s) изменен: %s.",
		payload.ClientName, payload.ServiceName, when, payload.Status)
}

// LogMailer writes messages to the log instead of sending them. Used when no
// real transport is configured.
type LogMailer struct {
	Logger *zerolog.Logger
}

func (m *LogMailer) Send(ctx context.Context, recipient, subject, body string) error {
	m.Logger.Info().Str("recipient", recipient).Str("subject", subject).Str("body", body).Msg("mail")
	return nil
}
