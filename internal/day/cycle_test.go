package day

import (
	"errors"
	"testing"
	"time"
)

var testStart = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

func TestNewCycleDefaults(t *testing.T) {
	c := NewCycle(1, 4, 500*time.Millisecond)
	if c.CurrentDay() != 1 {
		t.Fatalf("day = %d, want 1", c.CurrentDay())
	}
	if c.Quota() != 4 {
		t.Fatalf("quota = %d, want 4", c.Quota())
	}
	if c.ShiftActive() || c.Transitioning() || c.CampaignOver() {
		t.Fatal("new cycle must start with all flags clear")
	}
}

func TestStartNewDayRejectsReentrantCalls(t *testing.T) {
	c := NewCycle(1, 4, 500*time.Millisecond)

	if err := c.StartNewDay(testStart, 5); err != nil {
		t.Fatalf("first StartNewDay: %v", err)
	}
	if err := c.StartNewDay(testStart.Add(100*time.Millisecond), 5); !errors.Is(err, ErrTransitionInProgress) {
		t.Fatalf("re-entrant StartNewDay = %v, want ErrTransitionInProgress", err)
	}
	if c.CurrentDay() != 2 {
		t.Fatalf("day = %d, want 2 (rejected call must not advance)", c.CurrentDay())
	}
}

func TestStartNewDaySucceedsAfterSettleWindow(t *testing.T) {
	c := NewCycle(1, 4, 500*time.Millisecond)

	if err := c.StartNewDay(testStart, 5); err != nil {
		t.Fatalf("start day 2: %v", err)
	}
	if c.SettleTransition(testStart.Add(200 * time.Millisecond)) {
		t.Fatal("transition settled before the deadline")
	}
	if !c.SettleTransition(testStart.Add(500 * time.Millisecond)) {
		t.Fatal("transition did not settle at the deadline")
	}
	if c.SettleTransition(testStart.Add(time.Second)) {
		t.Fatal("settle edge reported twice")
	}

	if err := c.StartNewDay(testStart.Add(time.Second), 6); err != nil {
		t.Fatalf("start day 3 after settle: %v", err)
	}
	if c.CurrentDay() != 3 {
		t.Fatalf("day = %d, want exactly 3", c.CurrentDay())
	}
}

func TestStartNewDayResetsDailyCounter(t *testing.T) {
	c := NewCycle(1, 2, 0)
	c.BeginShift()
	c.RecordShipProcessed()
	c.RecordShipProcessed()
	c.EndShift()

	if err := c.StartNewDay(testStart, 3); err != nil {
		t.Fatalf("start new day: %v", err)
	}
	c.SettleTransition(testStart)

	if c.ShipsProcessedToday() != 0 {
		t.Fatalf("daily counter = %d, want 0 after day start", c.ShipsProcessedToday())
	}
	if c.TotalShipsProcessed() != 2 {
		t.Fatalf("campaign total = %d, want 2 (must survive day advance)", c.TotalShipsProcessed())
	}
	if c.Quota() != 3 {
		t.Fatalf("quota = %d, want 3", c.Quota())
	}
}

func TestRecordShipProcessedQuotaBoundary(t *testing.T) {
	c := NewCycle(1, 8, 0)
	c.BeginShift()

	quotaNotices := 0
	for i := 1; i <= 12; i++ {
		result := c.RecordShipProcessed()
		if !result.Recorded {
			t.Fatalf("call %d: not recorded", i)
		}
		if result.QuotaMet {
			quotaNotices++
			if i != 8 {
				t.Fatalf("quota met on call %d, want call 8", i)
			}
		}
	}
	if quotaNotices != 1 {
		t.Fatalf("quota notices = %d, want exactly 1", quotaNotices)
	}
}

func TestRecordShipProcessedRejectedDuringTransition(t *testing.T) {
	c := NewCycle(1, 4, time.Second)
	c.BeginShift()
	c.EndShift()
	if err := c.StartNewDay(testStart, 4); err != nil {
		t.Fatalf("start new day: %v", err)
	}

	if result := c.RecordShipProcessed(); result.Recorded {
		t.Fatal("ship recorded during a day transition")
	}
	if c.TotalShipsProcessed() != 0 {
		t.Fatalf("campaign total = %d, want 0", c.TotalShipsProcessed())
	}
}

func TestRecordShipProcessedRejectedAfterCampaignEnd(t *testing.T) {
	c := NewCycle(1, 4, 0)
	c.BeginShift()
	c.EndCampaign()

	if result := c.RecordShipProcessed(); result.Recorded {
		t.Fatal("ship recorded after campaign end")
	}
}

func TestCanAcceptWork(t *testing.T) {
	c := NewCycle(1, 4, time.Second)

	if c.CanAcceptWork(time.Minute) {
		t.Fatal("work accepted with no active shift")
	}
	c.BeginShift()
	if !c.CanAcceptWork(time.Minute) {
		t.Fatal("work rejected during an active shift")
	}
	if c.CanAcceptWork(0) {
		t.Fatal("work accepted with no clock time remaining")
	}

	c.EndShift()
	if err := c.StartNewDay(testStart, 4); err != nil {
		t.Fatalf("start new day: %v", err)
	}
	c.BeginShift()
	if c.CanAcceptWork(time.Minute) {
		t.Fatal("work accepted while a day transition is pending")
	}
	c.SettleTransition(testStart.Add(time.Second))
	if !c.CanAcceptWork(time.Minute) {
		t.Fatal("work rejected after the transition settled")
	}

	c.EndCampaign()
	if c.CanAcceptWork(time.Minute) {
		t.Fatal("work accepted after campaign end")
	}
}

func TestEndShiftIdempotent(t *testing.T) {
	c := NewCycle(1, 4, 0)
	c.BeginShift()

	edges := 0
	for i := 0; i < 3; i++ {
		if c.EndShift() {
			edges++
		}
	}
	if edges != 1 {
		t.Fatalf("shift-ended edges = %d, want exactly 1", edges)
	}
}

func TestBeginShiftGuards(t *testing.T) {
	c := NewCycle(1, 4, 0)
	if !c.BeginShift() {
		t.Fatal("first BeginShift rejected")
	}
	if c.BeginShift() {
		t.Fatal("BeginShift accepted while a shift is already active")
	}
	c.EndCampaign()
	if c.BeginShift() {
		t.Fatal("BeginShift accepted after campaign end")
	}
}

func TestLoadStateValidatesInvariants(t *testing.T) {
	c := NewCycle(1, 4, 0)

	if err := c.LoadState(3, 2, 9, 5); err != nil {
		t.Fatalf("load valid state: %v", err)
	}
	if c.CurrentDay() != 3 || c.ShipsProcessedToday() != 2 || c.TotalShipsProcessed() != 9 {
		t.Fatalf("loaded state = day %d ships %d/%d, want 3, 2, 9",
			c.CurrentDay(), c.ShipsProcessedToday(), c.TotalShipsProcessed())
	}

	if err := c.LoadState(0, 0, 0, 5); err == nil {
		t.Fatal("expected error for day 0")
	}
	if err := c.LoadState(1, 5, 3, 5); err == nil {
		t.Fatal("expected error for daily count above campaign total")
	}
	if err := c.LoadState(1, -1, 3, 5); err == nil {
		t.Fatal("expected error for negative counter")
	}
}

func TestEndCampaignClearsFlags(t *testing.T) {
	c := NewCycle(1, 4, time.Minute)
	c.BeginShift()
	if err := c.StartNewDay(testStart, 4); err == nil {
		c.EndCampaign()
	} else {
		t.Fatalf("start new day: %v", err)
	}
	if c.ShiftActive() || c.Transitioning() || !c.CampaignOver() {
		t.Fatal("EndCampaign must clear shift and transition flags")
	}
}
