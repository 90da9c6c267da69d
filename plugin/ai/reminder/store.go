package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hrygo/pengingat/store"
)

// ReminderStore defines the storage interface for reminders.
// *store.Store implements it.
type ReminderStore interface {
	CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error)
	ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error)
	GetReminder(ctx context.Context, find *store.FindReminder) (*store.Reminder, error)
	UpdateReminder(ctx context.Context, update *store.UpdateReminder) (*store.Reminder, error)
	DeleteReminder(ctx context.Context, delete *store.DeleteReminder) error
}

var _ ReminderStore = (*store.Store)(nil)

// Notifier delivers a due reminder to its owner.
type Notifier interface {
	Notify(ctx context.Context, reminder *store.Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, reminder *store.Reminder) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, reminder *store.Reminder) error {
	return f(ctx, reminder)
}

// LogNotifier writes due reminders to a logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs at info level.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the reminder.
func (n *LogNotifier) Notify(ctx context.Context, reminder *store.Reminder) error {
	n.logger.InfoContext(ctx, "reminder due",
		slog.String("uid", reminder.UID),
		slog.Int64("creator_id", int64(reminder.CreatorID)),
		slog.String("title", reminder.Title),
		slog.String("formatted", FormatReminder(reminder)),
	)
	return nil
}

// MockNotifier records notifications. Used in tests.
type MockNotifier struct {
	mu   sync.Mutex
	sent []*store.Reminder
	// FailFor makes Notify fail for reminders with these UIDs.
	FailFor map[string]bool
}

// NewMockNotifier creates a mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{FailFor: make(map[string]bool)}
}

// Notify records the reminder.
func (n *MockNotifier) Notify(_ context.Context, reminder *store.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.FailFor[reminder.UID] {
		return fmt.Errorf("delivery failed for %s", reminder.UID)
	}
	n.sent = append(n.sent, reminder)
	return nil
}

// Sent returns the recorded reminders.
func (n *MockNotifier) Sent() []*store.Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]*store.Reminder, len(n.sent))
	copy(out, n.sent)
	return out
}

// FormatReminder renders the reminder like ResolutionResult.FormattedReminder.
func FormatReminder(r *store.Reminder) string {
	return fmt.Sprintf("%s — %s — %s", r.Title, r.IsoDate, r.IsoTime)
}
