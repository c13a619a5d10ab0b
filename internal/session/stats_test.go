package session

import (
	"math"
	"testing"
	"time"
)

func TestParseStatsSnapshotPercentiles(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for _, us := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(us)*time.Microsecond, 10)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Bytes != 50 {
		t.Fatalf("expected bytes=50, got %d", snap.Bytes)
	}
	if snap.MinMicros != 100 || snap.MaxMicros != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMicros, snap.MaxMicros)
	}
	if snap.AvgMicros != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMicros)
	}
	if snap.P50Micros != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Micros)
	}
	if math.Abs(snap.P95Micros-480) > 1e-6 {
		t.Fatalf("expected p95=480, got %f", snap.P95Micros)
	}
	if math.Abs(snap.P99Micros-496) > 1e-6 {
		t.Fatalf("expected p99=496, got %f", snap.P99Micros)
	}
}

func TestParseStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewParseStats(10 * time.Millisecond)
	stats.Record(time.Millisecond, 1)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Microsecond, 1)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMicros != 200 || snap.MaxMicros != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMicros, snap.MaxMicros)
	}
}

func TestParseStatsClampsNegativeDuration(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(-time.Second, 0)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMicros != 0 || snap.MaxMicros != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMicros, snap.MaxMicros)
	}
}
