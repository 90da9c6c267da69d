package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// ReminderStatus is the lifecycle state of a reminder.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderDone      ReminderStatus = "done"
	ReminderCancelled ReminderStatus = "cancelled"
)

func (s ReminderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderPending, ReminderDone, ReminderCancelled:
		return true
	}
	return false
}

// Reminder is the object representing a resolved reminder.
type Reminder struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	// Title is the activity text recovered from the message.
	Title    string
	RawInput string

	// TriggerTs is the absolute trigger instant in unix seconds.
	TriggerTs int64
	// Timezone, IsoDate and IsoTime record the civil time the user asked for.
	Timezone string
	IsoDate  string
	IsoTime  string

	Status ReminderStatus
}

// TriggerTime returns the trigger instant in UTC.
func (r *Reminder) TriggerTime() time.Time {
	return time.Unix(r.TriggerTs, 0).UTC()
}

// FindReminder is the find condition for reminder.
type FindReminder struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Status    *ReminderStatus

	// TriggerFrom is inclusive, TriggerBefore exclusive.
	TriggerFrom   *int64
	TriggerBefore *int64

	// Filter is a CEL expression applied after the query.
	Filter string

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateReminder is the update request for reminder.
type UpdateReminder struct {
	ID        int32
	UpdatedTs *int64
	Title     *string
	Status    *ReminderStatus
}

// DeleteReminder is the delete request for reminder.
type DeleteReminder struct {
	ID int32
}

// CreateReminder creates a new reminder, assigning a UID when none is set.
func (s *Store) CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.Status == "" {
		create.Status = ReminderPending
	}
	if !create.Status.IsValid() {
		return nil, errors.Errorf("invalid reminder status %q", create.Status)
	}
	return s.driver.CreateReminder(ctx, create)
}

// ListReminders lists reminders ordered by trigger time. A non-empty
// find.Filter is compiled once and evaluated against every row; Limit and
// Offset then apply to the filtered rows.
func (s *Store) ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error) {
	if find.Filter == "" {
		return s.driver.ListReminders(ctx, find)
	}

	filter, err := NewReminderFilter(find.Filter)
	if err != nil {
		return nil, err
	}

	unpaged := *find
	unpaged.Limit, unpaged.Offset = nil, nil
	list, err := s.driver.ListReminders(ctx, &unpaged)
	if err != nil {
		return nil, err
	}

	matched := make([]*Reminder, 0, len(list))
	for _, reminder := range list {
		ok, err := filter.Match(reminder)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, reminder)
		}
	}
	return paginate(matched, find.Offset, find.Limit), nil
}

// GetReminder returns the first matching reminder, or nil when none matches.
func (s *Store) GetReminder(ctx context.Context, find *FindReminder) (*Reminder, error) {
	limit := 1
	copied := *find
	copied.Limit = &limit
	list, err := s.ListReminders(ctx, &copied)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateReminder applies update and returns the stored row.
func (s *Store) UpdateReminder(ctx context.Context, update *UpdateReminder) (*Reminder, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, errors.Errorf("invalid reminder status %q", *update.Status)
	}
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	if err := s.driver.UpdateReminder(ctx, update); err != nil {
		return nil, err
	}
	return s.GetReminder(ctx, &FindReminder{ID: &update.ID})
}

// DeleteReminder deletes a reminder.
func (s *Store) DeleteReminder(ctx context.Context, delete *DeleteReminder) error {
	return s.driver.DeleteReminder(ctx, delete)
}

func paginate(list []*Reminder, offset, limit *int) []*Reminder {
	if offset != nil {
		if *offset >= len(list) {
			return []*Reminder{}
		}
		if *offset > 0 {
			list = list[*offset:]
		}
	}
	if limit != nil && *limit >= 0 && *limit < len(list) {
		list = list[:*limit]
	}
	return list
}
