// Package reminder turns free-form messages into stored reminders and fires
// them when they fall due.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/pengingat/plugin/ai/aitime"
	"github.com/hrygo/pengingat/server/timezone"
	"github.com/hrygo/pengingat/store"
)

var (
	// ErrNotFound is returned when a reminder does not exist for the caller.
	ErrNotFound = errors.New("reminder not found")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid reminder status transition")
)

// defaultBatchSize is the page size ProcessDueReminders loads due reminders in.
const defaultBatchSize = 100

// CreateResult is the outcome of CreateFromMessage. Reminder is nil when the
// message needs clarification.
type CreateResult struct {
	Resolution aitime.ResolutionResult
	Reminder   *store.Reminder
}

// Service provides reminder management functionality.
type Service struct {
	store     ReminderStore
	temporal  aitime.TemporalService
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
	batchSize int

	// serializes ProcessDueReminders so a reminder is never fired twice
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets where due reminders are delivered.
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBatchSize sets the page size due reminders are loaded in.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewService creates a new reminder service.
func NewService(store ReminderStore, temporal aitime.TemporalService, opts ...Option) *Service {
	s := &Service{
		store:     store,
		temporal:  temporal,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}
	return s
}

// Location returns the civil timezone reminders are resolved in.
func (s *Service) Location() *time.Location {
	return s.temporal.Location()
}

// CreateFromMessage resolves message against reference (nil means now) and
// stores a pending reminder when the result is resolved. A clarification is
// returned as-is and nothing is stored.
func (s *Service) CreateFromMessage(ctx context.Context, creatorID int32, message string, reference *time.Time) (*CreateResult, error) {
	if reference == nil {
		now := s.now()
		reference = &now
	}

	resolution := s.temporal.ParseTemporalExpression(ctx, message, reference)
	if !resolution.IsResolved() {
		return &CreateResult{Resolution: resolution}, nil
	}

	loc := s.temporal.Location()
	trigger, err := timezone.ToAbsoluteInstant(resolution.IsoDate, resolution.IsoTime, loc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert resolved time")
	}

	reminder, err := s.store.CreateReminder(ctx, &store.Reminder{
		CreatorID: creatorID,
		Title:     resolution.ActivityText,
		RawInput:  message,
		TriggerTs: trigger.Unix(),
		Timezone:  loc.String(),
		IsoDate:   resolution.IsoDate,
		IsoTime:   resolution.IsoTime,
		Status:    store.ReminderPending,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create reminder")
	}

	if trigger.Before(*reference) {
		s.logger.WarnContext(ctx, "reminder created in the past",
			slog.String("uid", reminder.UID),
			slog.Time("trigger", trigger),
		)
	}
	return &CreateResult{Resolution: resolution, Reminder: reminder}, nil
}

// Get returns the caller's reminder with the given UID.
func (s *Service) Get(ctx context.Context, creatorID int32, uid string) (*store.Reminder, error) {
	reminder, err := s.store.GetReminder(ctx, &store.FindReminder{UID: &uid, CreatorID: &creatorID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reminder")
	}
	if reminder == nil {
		return nil, errors.Wrapf(ErrNotFound, "uid %s", uid)
	}
	return reminder, nil
}

// List returns the caller's reminders ordered by trigger time, optionally
// narrowed by a CEL filter.
func (s *Service) List(ctx context.Context, creatorID int32, filter string) ([]*store.Reminder, error) {
	list, err := s.store.ListReminders(ctx, &store.FindReminder{CreatorID: &creatorID, Filter: filter})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reminders")
	}
	return list, nil
}

// Upcoming returns up to limit pending reminders triggering at or after from.
func (s *Service) Upcoming(ctx context.Context, creatorID int32, from time.Time, limit int) ([]*store.Reminder, error) {
	status := store.ReminderPending
	fromTs := from.Unix()
	find := &store.FindReminder{
		CreatorID:   &creatorID,
		Status:      &status,
		TriggerFrom: &fromTs,
	}
	if limit > 0 {
		find.Limit = &limit
	}
	list, err := s.store.ListReminders(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list upcoming reminders")
	}
	return list, nil
}

// Complete marks a pending reminder done.
func (s *Service) Complete(ctx context.Context, creatorID int32, uid string) (*store.Reminder, error) {
	return s.SetStatus(ctx, creatorID, uid, store.ReminderDone)
}

// Cancel marks a pending reminder cancelled.
func (s *Service) Cancel(ctx context.Context, creatorID int32, uid string) (*store.Reminder, error) {
	return s.SetStatus(ctx, creatorID, uid, store.ReminderCancelled)
}

// SetStatus moves a reminder to status. Only pending reminders change state;
// setting the current status again is a no-op.
func (s *Service) SetStatus(ctx context.Context, creatorID int32, uid string, status store.ReminderStatus) (*store.Reminder, error) {
	if !status.IsValid() {
		return nil, errors.Wrapf(ErrInvalidTransition, "unknown status %q", status)
	}

	reminder, err := s.Get(ctx, creatorID, uid)
	if err != nil {
		return nil, err
	}
	if reminder.Status == status {
		return reminder, nil
	}
	if reminder.Status != store.ReminderPending {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot change %s reminder to %s", reminder.Status, status)
	}

	updatedTs := s.now().Unix()
	updated, err := s.store.UpdateReminder(ctx, &store.UpdateReminder{
		ID:        reminder.ID,
		UpdatedTs: &updatedTs,
		Status:    &status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update reminder")
	}
	return updated, nil
}

// Delete removes the caller's reminder.
func (s *Service) Delete(ctx context.Context, creatorID int32, uid string) error {
	reminder, err := s.Get(ctx, creatorID, uid)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReminder(ctx, &store.DeleteReminder{ID: reminder.ID}); err != nil {
		return errors.Wrap(err, "failed to delete reminder")
	}
	return nil
}

// ProcessDueReminders notifies every pending reminder whose trigger instant
// has passed and marks it done. A reminder whose notification fails stays
// pending and is retried on the next call; it does not hold back the
// reminders queued behind it.
func (s *Service) ProcessDueReminders(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	status := store.ReminderPending
	before := now.Unix() + 1
	limit := s.batchSize

	processed, skipped := 0, 0
	for {
		offset := skipped
		due, err := s.store.ListReminders(ctx, &store.FindReminder{
			Status:        &status,
			TriggerBefore: &before,
			Limit:         &limit,
			Offset:        &offset,
		})
		if err != nil {
			return processed, errors.Wrap(err, "failed to get due reminders")
		}

		for _, r := range due {
			if err := ctx.Err(); err != nil {
				return processed, err
			}
			if s.fire(ctx, r, now) {
				processed++
			} else {
				// still pending, so later pages start after it
				skipped++
			}
		}
		if len(due) < limit {
			return processed, nil
		}
	}
}

// fire notifies r and marks it done, reporting whether both succeeded.
func (s *Service) fire(ctx context.Context, r *store.Reminder, now time.Time) bool {
	if err := s.notifier.Notify(ctx, r); err != nil {
		s.logger.WarnContext(ctx, "failed to notify reminder",
			slog.String("uid", r.UID),
			slog.String("error", err.Error()),
		)
		return false
	}

	done := store.ReminderDone
	updatedTs := now.Unix()
	if _, err := s.store.UpdateReminder(ctx, &store.UpdateReminder{ID: r.ID, UpdatedTs: &updatedTs, Status: &done}); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark reminder done",
			slog.String("uid", r.UID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}
