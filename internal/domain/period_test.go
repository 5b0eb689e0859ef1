package domain

import (
	"testing"
	"time"
)

func TestNewPeriod_Bounds(t *testing.T) {
	p := NewPeriod(2025, 1)

	wantStart := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	if !p.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, p.Start)
	}
	if !p.End.Equal(wantEnd) {
		t.Errorf("Expected end %v, got %v", wantEnd, p.End)
	}
}

func TestNewPeriod_DecemberRollsIntoNextYear(t *testing.T) {
	p := NewPeriod(2024, 12)

	wantEnd := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !p.End.Equal(wantEnd) {
		t.Errorf("Expected end %v, got %v", wantEnd, p.End)
	}
}

func TestNewPeriod_Month13Normalizes(t *testing.T) {
	p := NewPeriod(2024, 13)

	if p.Year() != 2025 || p.Month() != 1 {
		t.Errorf("Expected 2025-01, got %d-%02d", p.Year(), p.Month())
	}
}

func TestPeriod_Contains(t *testing.T) {
	p := NewPeriod(2025, 1)

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"first day", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"last day", time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC), true},
		{"end is exclusive", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), false},
		{"before start", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Contains(tc.date); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestPeriod_AddMonths_CrossesYearBoundary(t *testing.T) {
	p := NewPeriod(2025, 1)

	back := p.AddMonths(-5)
	if back.Year() != 2024 || back.Month() != 8 {
		t.Errorf("Expected 2024-08, got %d-%02d", back.Year(), back.Month())
	}

	forward := p.AddMonths(12)
	if forward.Year() != 2026 || forward.Month() != 1 {
		t.Errorf("Expected 2026-01, got %d-%02d", forward.Year(), forward.Month())
	}
}

func TestPeriodOf(t *testing.T) {
	p := PeriodOf(time.Date(2025, 3, 17, 14, 30, 0, 0, time.UTC))

	if p.Year() != 2025 || p.Month() != 3 {
		t.Errorf("Expected 2025-03, got %d-%02d", p.Year(), p.Month())
	}
}

func TestPeriod_Label(t *testing.T) {
	if got := NewPeriod(2025, 1).Label(); got != "Jan 2025" {
		t.Errorf("Expected 'Jan 2025', got %q", got)
	}
	if got := NewPeriod(2024, 12).Label(); got != "Dec 2024" {
		t.Errorf("Expected 'Dec 2024', got %q", got)
	}
}
