// internal/scheduler/scheduler.go
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/user/mindwell/internal/state"
)

// Handler is the callback invoked when a check-in reminder fires.
type Handler func(sessionKey, message string)

// sweepSchedule is how often the delayed-finalization sweep runs.
const sweepSchedule = "@every 30s"

// Scheduler fires check-in reminders from the reminder store on their cron
// schedules and periodically runs the delayed-finalization sweep.
type Scheduler struct {
	store   *state.ReminderStore
	handler Handler
	sweep   func()
	cron    *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler backed by the given reminder store. The handler is
// called each time a reminder fires; sweep, if non-nil, is invoked
// periodically to finalize sessions whose delay has come due.
func New(store *state.ReminderStore, handler Handler, sweep func()) *Scheduler {
	return &Scheduler{
		store:   store,
		handler: handler,
		sweep:   sweep,
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start loads reminders from the store, registers enabled ones as cron
// entries, registers the finalization sweep, and starts the cron ticker.
func (s *Scheduler) Start() error {
	reminders, err := s.store.List()
	if err != nil {
		return err
	}

	for _, reminder := range reminders {
		if reminder.Schedule == "" || !reminder.Enabled {
			continue
		}

		// Capture loop variables for the closure.
		sessionKey := reminder.SessionKey
		message := reminder.Message
		schedule := reminder.Schedule
		name := reminder.Name

		_, err := s.cron.AddFunc(schedule, func() {
			slog.Info("cron firing reminder", "name", name, "session_key", sessionKey)
			s.handler(sessionKey, message)
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", name, "schedule", schedule, "error", err)
			continue
		}
		slog.Info("scheduled reminder", "name", name, "schedule", schedule)
	}

	if s.sweep != nil {
		if _, err := s.cron.AddFunc(sweepSchedule, s.sweep); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Reload stops the existing cron, creates a new one, and calls Start() again.
func (s *Scheduler) Reload() error {
	s.cron.Stop()
	s.cron = cron.New(cron.WithParser(cronParser))
	return s.Start()
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
