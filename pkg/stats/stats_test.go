package stats

import (
	"testing"
	"time"
)

func TestRecordAccumulatesCounters(t *testing.T) {
	c := New(0)
	now := time.Unix(0, 0)
	c.Record("check", 10*time.Millisecond, now)
	c.Record("check", 20*time.Millisecond, now)
	c.Record("dump", 5*time.Millisecond, now)

	counts := c.Counts()
	if counts["check"] != 2 {
		t.Fatalf("counts[check] = %d, want 2", counts["check"])
	}
	if counts["dump"] != 1 {
		t.Fatalf("counts[dump] = %d, want 1", counts["dump"])
	}

	total, elapsed := c.Total()
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if elapsed != 35*time.Millisecond {
		t.Fatalf("elapsed = %v, want 35ms", elapsed)
	}
}

func TestRecentIsBoundedAndOldestFirst(t *testing.T) {
	c := New(2)
	now := time.Unix(0, 0)
	c.Record("a", time.Millisecond, now)
	c.Record("b", 2*time.Millisecond, now)
	c.Record("c", 3*time.Millisecond, now)

	recent := c.Recent()
	if len(recent) != 2 {
		t.Fatalf("len(Recent()) = %d, want 2", len(recent))
	}
	if recent[0].Kind != "b" || recent[1].Kind != "c" {
		t.Fatalf("Recent() = %#v, want [b c]", recent)
	}
}

func TestCountsAndRecentAreSnapshots(t *testing.T) {
	c := New(0)
	c.Record("a", time.Millisecond, time.Unix(0, 0))

	counts := c.Counts()
	counts["a"] = 999
	if got := c.Counts()["a"]; got != 1 {
		t.Fatalf("mutating a returned snapshot affected the collector: got %d", got)
	}

	recent := c.Recent()
	recent[0].Kind = "mutated"
	if got := c.Recent()[0].Kind; got != "a" {
		t.Fatalf("mutating a returned snapshot affected the collector: got %q", got)
	}
}
