package testfixtures

import (
	"testing"
	"time"
)

func TestNewClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if got := clock.Now(); !got.Equal(ReferenceTime()) {
		t.Fatalf("Now() = %v, want %v", got, ReferenceTime())
	}
}

func TestClockSetAndAdvance(t *testing.T) {
	start := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	moved := clock.Advance(90 * time.Minute)
	want := start.Add(90 * time.Minute)
	if !moved.Equal(want) {
		t.Fatalf("Advance returned %v, want %v", moved, want)
	}
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}

	pinned := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(pinned)
	if got := clock.Now(); !got.Equal(pinned) {
		t.Fatalf("Now() after Set = %v, want %v", got, pinned)
	}
}

func TestClockNowFuncTracksClock(t *testing.T) {
	clock := NewClock(time.Time{})
	now := clock.NowFunc()

	before := now()
	clock.Advance(time.Hour)
	after := now()

	if !after.Equal(before.Add(time.Hour)) {
		t.Fatalf("NowFunc returned %v after advance, want %v", after, before.Add(time.Hour))
	}
}

func TestNilClockNowFuncFallsBackToWallClock(t *testing.T) {
	var clock *Clock
	now := clock.NowFunc()
	if now == nil {
		t.Fatal("NowFunc on nil clock returned nil")
	}
	if now().IsZero() {
		t.Fatal("NowFunc on nil clock returned the zero time")
	}
}
