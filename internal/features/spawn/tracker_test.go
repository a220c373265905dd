package spawn

import (
	"fmt"
	"testing"
	"time"
)

func TestTrackerThreshold(t *testing.T) {
	tr := NewTracker(5, 2, time.Minute)
	now := time.Now()

	for i := 0; i < 4; i++ {
		if tr.Record("g1", fmt.Sprintf("user%d", i%2), now) {
			t.Fatalf("spawn triggered after %d messages, threshold is 5", i+1)
		}
	}
	if !tr.Record("g1", "user1", now) {
		t.Fatal("spawn should trigger on the 5th message")
	}
}

func TestTrackerMinMembers(t *testing.T) {
	tr := NewTracker(3, 2, time.Minute)
	now := time.Now()

	// One lonely author spamming never triggers a spawn.
	for i := 0; i < 10; i++ {
		if tr.Record("g1", "solo", now) {
			t.Fatal("spawn triggered with a single author")
		}
	}

	// A second author joining pushes it over.
	if !tr.Record("g1", "friend", now) {
		t.Fatal("spawn should trigger once a second author shows up")
	}
}

func TestTrackerCooldown(t *testing.T) {
	tr := NewTracker(2, 1, 5*time.Minute)
	start := time.Now()

	tr.Record("g1", "a", start)
	if !tr.Record("g1", "b", start) {
		t.Fatal("first spawn should trigger")
	}

	// Counters reset after a spawn; hitting the threshold again inside
	// the cooldown does nothing.
	soon := start.Add(time.Minute)
	for i := 0; i < 6; i++ {
		if tr.Record("g1", "a", soon) {
			t.Fatal("spawn triggered inside the cooldown window")
		}
	}

	later := start.Add(6 * time.Minute)
	tr.Record("g1", "a", later)
	if !tr.Record("g1", "b", later) {
		t.Fatal("spawn should trigger after the cooldown passes")
	}
}

func TestTrackerGuildsAreIndependent(t *testing.T) {
	tr := NewTracker(2, 1, time.Minute)
	now := time.Now()

	tr.Record("g1", "a", now)
	if tr.Record("g2", "a", now) {
		t.Fatal("g2 got a spawn off g1's messages")
	}
	if !tr.Record("g1", "b", now) {
		t.Fatal("g1 should spawn on its own 2nd message")
	}
}
