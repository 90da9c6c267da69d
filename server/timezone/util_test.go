package timezone

import (
	"testing"
	"time"

	apperrors "github.com/hrygo/pengingat/server/internal/errors"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name     string
		tz       string
		wantName string
		wantErr  bool
	}{
		{
			name:     "UTC",
			tz:       "UTC",
			wantName: "UTC",
			wantErr:  false,
		},
		{
			name:     "empty string defaults to Asia/Jakarta",
			tz:       "",
			wantName: "Asia/Jakarta",
			wantErr:  false,
		},
		{
			name:     "Asia/Makassar",
			tz:       "Asia/Makassar",
			wantName: "Asia/Makassar",
			wantErr:  false,
		},
		{
			name:     "invalid timezone falls back to default",
			tz:       "Invalid/Timezone",
			wantName: "Asia/Jakarta",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if loc == nil {
				t.Fatalf("ParseTimezone() returned nil location")
			}
			if loc.String() != tt.wantName {
				t.Errorf("ParseTimezone() location = %v, want %v", loc, tt.wantName)
			}
			if tt.wantErr && !apperrors.IsCode(err, apperrors.ErrCodeInvalidTimezone) {
				t.Errorf("ParseTimezone() error code = %v, want %v",
					apperrors.GetCodeFromError(err, ""), apperrors.ErrCodeInvalidTimezone)
			}
		})
	}
}

func TestIsValidTimezone(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want bool
	}{
		{"UTC", "UTC", true},
		{"empty", "", true},
		{"Asia/Jakarta", "Asia/Jakarta", true},
		{"Asia/Jayapura", "Asia/Jayapura", true},
		{"invalid", "Invalid/Timezone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTimezone(tt.tz); got != tt.want {
				t.Errorf("IsValidTimezone() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	// 2025-01-21 20:30:00 UTC is already 2025-01-22 in Jakarta
	testTime := time.Date(2025, 1, 21, 20, 30, 0, 0, time.UTC)

	got := StartOfDay(testTime, LocationAsiaJakarta)

	// 2025-01-22 00:00:00 WIB is 2025-01-21 17:00:00 UTC
	want := time.Date(2025, 1, 21, 17, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
	if got.Location() != LocationAsiaJakarta {
		t.Errorf("StartOfDay() location = %v, want %v", got.Location(), LocationAsiaJakarta)
	}
}

func TestNowInTimezone(t *testing.T) {
	got := NowInTimezone(LocationAsiaMakassar)

	if got.Location() != LocationAsiaMakassar {
		t.Errorf("NowInTimezone() location = %v, want %v", got.Location(), LocationAsiaMakassar)
	}
}

func TestIndonesianTimezoneOffsets(t *testing.T) {
	instant := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		loc        *time.Location
		wantOffset int
	}{
		{LocationAsiaJakarta, 7 * 3600},
		{LocationAsiaMakassar, 8 * 3600},
		{LocationAsiaJayapura, 9 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			_, offset := instant.In(tt.loc).Zone()
			if offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}
