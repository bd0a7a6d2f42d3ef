package rankingdomain

import (
	"testing"
	"time"
)

func TestParseReferenceMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-03", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2026-03-15", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: "03-2026", wantErr: true},
		{in: "garbage", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReferenceMonth(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextMonthRollsOverYear(t *testing.T) {
	dec := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	got := NextMonth(dec)
	want := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextMonth(%v) = %v, want %v", dec, got, want)
	}
}

func TestBusinessDays(t *testing.T) {
	// August 2026 starts on a Saturday: first business day is Monday the
	// 3rd, second is Tuesday the 4th.
	aug := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := FirstBusinessDay(aug); got.Day() != 3 {
		t.Errorf("FirstBusinessDay = day %d, want 3", got.Day())
	}
	if got := SecondBusinessDay(aug); got.Day() != 4 {
		t.Errorf("SecondBusinessDay = day %d, want 4", got.Day())
	}

	// A first business day on Friday pushes the second to Monday.
	// May 2026 starts on a Friday.
	may := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if got := FirstBusinessDay(may); got.Day() != 1 {
		t.Errorf("FirstBusinessDay = day %d, want 1", got.Day())
	}
	if got := SecondBusinessDay(may); got.Day() != 4 {
		t.Errorf("SecondBusinessDay = day %d, want 4", got.Day())
	}
}

func TestMonthEnd(t *testing.T) {
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	got := MonthEnd(feb)
	if got.Day() != 28 || got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("MonthEnd(feb 2026) = %v, want Feb 28 23:59", got)
	}
}
