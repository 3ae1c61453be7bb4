package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestFormatPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "UTC time",
			in:   time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC),
			want: "D:20240131093000+00'00'",
		},
		{
			name: "offset time is normalized to UTC",
			in:   time.Date(2024, 1, 31, 11, 30, 5, 0, time.FixedZone("CEST", 2*3600)),
			want: "D:20240131093005+00'00'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatPDF(tt.in); got != tt.want {
				t.Errorf("FormatPDF() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr error
	}{
		{name: "now keyword", value: "now", want: now},
		{name: "now keyword uppercase", value: "NOW", want: now},
		{name: "date only", value: "2024-02-29", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "date and minutes", value: "2024-02-29 10:15", want: time.Date(2024, 2, 29, 10, 15, 0, 0, time.UTC)},
		{name: "RFC 3339", value: "2024-02-29T10:15:30Z", want: time.Date(2024, 2, 29, 10, 15, 30, 0, time.UTC)},
		{name: "surrounding spaces", value: "  2024-01-01  ", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "empty", value: "", wantErr: ErrInvalidDate},
		{name: "garbage", value: "yesterday", wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tt.value, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDate(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
