package test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/pengingat/store"
)

func newTestingReminder(creatorID int32, title, isoDate, isoTime string, triggerTs int64) *store.Reminder {
	return &store.Reminder{
		CreatorID: creatorID,
		Title:     title,
		RawInput:  title,
		TriggerTs: triggerTs,
		Timezone:  "Asia/Jakarta",
		IsoDate:   isoDate,
		IsoTime:   isoTime,
	}
}

func TestReminderStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created, err := ts.CreateReminder(ctx, newTestingReminder(1, "minum obat", "2025-10-20", "18:00", 1760958000))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Len(t, created.UID, 22)
	assert.Equal(t, store.ReminderPending, created.Status)
	assert.NotZero(t, created.CreatedTs)

	got, err := ts.GetReminder(ctx, &store.FindReminder{UID: &created.UID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "minum obat", got.Title)
	assert.Equal(t, "2025-10-20", got.IsoDate)
	assert.Equal(t, "18:00", got.IsoTime)
	assert.Equal(t, int64(1760958000), got.TriggerTs)
	assert.Equal(t, "2025-10-20T11:00:00Z", got.TriggerTime().Format("2006-01-02T15:04:05Z07:00"))

	done := store.ReminderDone
	updated, err := ts.UpdateReminder(ctx, &store.UpdateReminder{ID: created.ID, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, store.ReminderDone, updated.Status)

	require.NoError(t, ts.DeleteReminder(ctx, &store.DeleteReminder{ID: created.ID}))
	got, err = ts.GetReminder(ctx, &store.FindReminder{ID: &created.ID})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReminderStore_List(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	fixtures := []*store.Reminder{
		newTestingReminder(7, "lusa beli susu", "2025-10-21", "08:00", 1761008400),
		newTestingReminder(7, "minum obat", "2025-10-20", "18:00", 1760958000),
		newTestingReminder(7, "meeting", "2025-10-19", "14:30", 1760859000),
		newTestingReminder(8, "orang lain", "2025-10-20", "09:00", 1760925600),
	}
	for _, r := range fixtures {
		_, err := ts.CreateReminder(ctx, r)
		require.NoError(t, err)
	}

	creator := int32(7)
	list, err := ts.ListReminders(ctx, &store.FindReminder{CreatorID: &creator})
	require.NoError(t, err)
	require.Len(t, list, 3)
	// ordered by trigger time
	assert.Equal(t, "meeting", list[0].Title)
	assert.Equal(t, "minum obat", list[1].Title)
	assert.Equal(t, "lusa beli susu", list[2].Title)

	from := int64(1760958000)
	list, err = ts.ListReminders(ctx, &store.FindReminder{CreatorID: &creator, TriggerFrom: &from})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	limit, offset := 1, 1
	list, err = ts.ListReminders(ctx, &store.FindReminder{CreatorID: &creator, Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "minum obat", list[0].Title)

	t.Run("offset without limit", func(t *testing.T) {
		offset := 1
		list, err := ts.ListReminders(ctx, &store.FindReminder{CreatorID: &creator, Offset: &offset})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "minum obat", list[0].Title)
		assert.Equal(t, "lusa beli susu", list[1].Title)
	})

	t.Run("cel filter", func(t *testing.T) {
		list, err := ts.ListReminders(ctx, &store.FindReminder{
			CreatorID: &creator,
			Filter:    `iso_date >= "2025-10-20" && title.contains("obat")`,
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "minum obat", list[0].Title)
	})

	t.Run("cel filter with pagination", func(t *testing.T) {
		limit := 1
		list, err := ts.ListReminders(ctx, &store.FindReminder{
			CreatorID: &creator,
			Filter:    `status == "pending"`,
			Limit:     &limit,
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "meeting", list[0].Title)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := ts.ListReminders(ctx, &store.FindReminder{Filter: `title +`})
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrInvalidFilter))
	})
}

func TestReminderStore_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	r := newTestingReminder(1, "x", "2025-10-20", "18:00", 1760958000)
	r.Status = "snoozed"
	_, err := ts.CreateReminder(ctx, r)
	assert.Error(t, err)

	created, err := ts.CreateReminder(ctx, newTestingReminder(1, "x", "2025-10-20", "18:00", 1760958000))
	require.NoError(t, err)
	bad := store.ReminderStatus("snoozed")
	_, err = ts.UpdateReminder(ctx, &store.UpdateReminder{ID: created.ID, Status: &bad})
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	initialized, err := ts.GetDriver().IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
	require.NoError(t, ts.Migrate(ctx))
}
