package process

import (
	"testing"
	"time"
)

func TestParsePostDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "rfc3339 utc",
			raw:  "2024-01-01T12:00:00Z",
			want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			raw:  "2024-01-01T12:00:00+02:00",
			want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("", 2*60*60)),
		},
		{
			name: "date only",
			raw:  "2024-01-15",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "long form",
			raw:  "May 8, 2009 5:57:51 PM",
			want: time.Date(2009, 5, 8, 17, 57, 51, 0, time.UTC),
		},
		{
			name: "iso without zone falls through to permissive parse",
			raw:  "2024-01-01T12:00:00",
			want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "surrounding whitespace",
			raw:  "  2024-01-01T12:00:00Z  ",
			want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePostDate(tt.raw)
			if err != nil {
				t.Fatalf("parsePostDate(%q) error = %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parsePostDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePostDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"not-a-date", "", "hace 3 días"} {
		if _, err := parsePostDate(raw); err == nil {
			t.Errorf("parsePostDate(%q) expected error", raw)
		}
	}
}
