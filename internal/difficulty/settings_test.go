package difficulty

import (
	"testing"
	"time"
)

func TestSettingsForDayIsPure(t *testing.T) {
	for day := 1; day <= 20; day++ {
		a := SettingsForDay(day)
		b := SettingsForDay(day)
		if a.Day != day || b.Day != day {
			t.Fatalf("day %d: settings carry day %d/%d", day, a.Day, b.Day)
		}
		if a.ShiftDuration != b.ShiftDuration || a.Quota != b.Quota {
			t.Fatalf("day %d: settings are not stable across calls", day)
		}
		if a.ShiftDuration <= 0 {
			t.Fatalf("day %d: non-positive shift duration %v", day, a.ShiftDuration)
		}
		if a.Quota <= 0 {
			t.Fatalf("day %d: non-positive quota %d", day, a.Quota)
		}
	}
}

func TestSettingsForDayFallback(t *testing.T) {
	last := SettingsForDay(len(table))
	beyond := SettingsForDay(len(table) + 25)
	if beyond.Day != len(table)+25 {
		t.Fatalf("fallback day = %d, want %d", beyond.Day, len(table)+25)
	}
	if beyond.ShiftDuration != last.ShiftDuration || beyond.Quota != last.Quota {
		t.Fatal("expected days past the table to reuse the final entry")
	}
}

func TestSettingsForDayClampsLowDays(t *testing.T) {
	got := SettingsForDay(0)
	want := SettingsForDay(1)
	if got.ShiftDuration != want.ShiftDuration || got.Quota != want.Quota {
		t.Fatal("expected day 0 to clamp to day 1 settings")
	}
	if got.Day != 1 {
		t.Fatalf("clamped day = %d, want 1", got.Day)
	}
}

func TestWarningThresholdsDescending(t *testing.T) {
	for day := 1; day <= 12; day++ {
		s := SettingsForDay(day)
		for i := 1; i < len(s.WarningThresholds); i++ {
			if s.WarningThresholds[i] >= s.WarningThresholds[i-1] {
				t.Fatalf("day %d: thresholds not strictly descending: %v", day, s.WarningThresholds)
			}
		}
		if len(s.WarningThresholds) > 0 && s.WarningThresholds[0] >= s.ShiftDuration {
			t.Fatalf("day %d: first threshold %v not below shift duration %v", day, s.WarningThresholds[0], s.ShiftDuration)
		}
	}
}

func TestMultiplierForDay(t *testing.T) {
	cases := []struct {
		day  int
		want float64
	}{
		{day: 1, want: 1.0},
		{day: 2, want: 1.15},
		{day: 5, want: 1.6},
		{day: 60, want: MaxMultiplier},
	}
	for _, tc := range cases {
		got := MultiplierForDay(tc.day)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("multiplier(day=%d) = %v, want %v", tc.day, got, tc.want)
		}
	}
}

func TestMultiplierNeverExceedsCap(t *testing.T) {
	for day := 1; day <= 200; day++ {
		if m := MultiplierForDay(day); m > MaxMultiplier {
			t.Fatalf("day %d: multiplier %v exceeds cap %v", day, m, MaxMultiplier)
		}
	}
}

func TestFallbackShiftDuration(t *testing.T) {
	if FallbackShiftDuration != 30*time.Second {
		t.Fatalf("fallback shift duration = %v, want 30s", FallbackShiftDuration)
	}
}
