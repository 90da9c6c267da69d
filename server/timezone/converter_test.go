package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hrygo/pengingat/server/internal/errors"
)

func TestToAbsoluteInstant(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		loc     *time.Location
		wantUTC string
	}{
		{"evening in Jakarta", "2025-10-20", "18:00", LocationAsiaJakarta, "2025-10-20T11:00:00Z"},
		{"midnight crosses to previous UTC day", "2025-10-20", "00:00", LocationAsiaJakarta, "2025-10-19T17:00:00Z"},
		{"Makassar offset", "2025-10-20", "18:00", LocationAsiaMakassar, "2025-10-20T10:00:00Z"},
		{"Jayapura offset", "2025-10-20", "08:30", LocationAsiaJayapura, "2025-10-19T23:30:00Z"},
		{"UTC identity", "2024-02-29", "23:59", time.UTC, "2024-02-29T23:59:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAbsoluteInstant(tt.date, tt.clock, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, time.UTC, got.Location())
			assert.Equal(t, tt.wantUTC, got.Format(time.RFC3339))
		})
	}
}

func TestToAbsoluteInstant_IgnoresHostZone(t *testing.T) {
	saved := time.Local
	t.Cleanup(func() { time.Local = saved })
	time.Local = time.FixedZone("HOST", -5*3600)

	got, err := ToAbsoluteInstant("2025-10-20", "18:00", LocationAsiaJakarta)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-20T11:00:00Z", got.Format(time.RFC3339))
}

func TestToAbsoluteInstant_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		clock    string
		loc      *time.Location
		wantCode apperrors.ErrorCode
	}{
		{"single digit month", "2025-1-20", "18:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidDate},
		{"month out of range", "2025-13-01", "18:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidDate},
		{"day out of range", "2025-02-30", "18:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidDate},
		{"not a date", "besok", "18:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidDate},
		{"single digit hour", "2025-10-20", "6:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidTime},
		{"hour out of range", "2025-10-20", "24:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidTime},
		{"minute out of range", "2025-10-20", "18:60", LocationAsiaJakarta, apperrors.ErrCodeInvalidTime},
		{"seconds not allowed", "2025-10-20", "18:00:00", LocationAsiaJakarta, apperrors.ErrCodeInvalidTime},
		{"nil location", "2025-10-20", "18:00", nil, apperrors.ErrCodeInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToAbsoluteInstant(tt.date, tt.clock, tt.loc)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestFormatForDisplay(t *testing.T) {
	got, err := FormatForDisplay("2025-10-20", "18:00", LocationAsiaJakarta)
	require.NoError(t, err)
	assert.Equal(t, "20 Oct 2025 at 18:00", got)

	// Same inputs always render the same string.
	for i := 0; i < 3; i++ {
		again, err := FormatForDisplay("2025-10-20", "18:00", LocationAsiaJakarta)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	_, err = FormatForDisplay("2025-10-20", "25:00", LocationAsiaJakarta)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidTime))
}

func TestFormatInstant(t *testing.T) {
	instant := time.Date(2025, 10, 20, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, "20 Oct 2025 at 18:00", FormatInstant(instant, LocationAsiaJakarta))
	assert.Equal(t, "20 Oct 2025 at 19:00", FormatInstant(instant, LocationAsiaMakassar))
}
