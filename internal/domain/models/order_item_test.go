package models

import (
	"strings"
	"testing"
	"time"
)

func TestEfficiencyScore(t *testing.T) {
	started := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mkItem := func(actualMinutes int) OrderItem {
		completed := started.Add(time.Duration(actualMinutes) * time.Minute)
		return OrderItem{StartedAt: &started, CompletedAt: &completed}
	}

	// Slower than expected: 30 expected over 45 actual rounds to 67.
	if e := mkItem(45).Efficiency(30); e == nil || *e != 67 {
		t.Fatalf("30/45 efficiency = %v, want 67", e)
	}
	// Exactly on time.
	if e := mkItem(30).Efficiency(30); e == nil || *e != 100 {
		t.Fatalf("on-time efficiency = %v, want 100", e)
	}
	// Very fast work clamps at 200.
	if e := mkItem(5).Efficiency(60); e == nil || *e != 200 {
		t.Fatalf("fast efficiency should clamp at 200, got %v", e)
	}
	// Instant completion scores 100 rather than dividing by zero.
	if e := mkItem(0).Efficiency(30); e == nil || *e != 100 {
		t.Fatalf("instant completion = %v, want 100", e)
	}

	// Missing data gives no score at all.
	if (OrderItem{StartedAt: &started}).Efficiency(30) != nil {
		t.Fatalf("item without completion has no efficiency")
	}
	if mkItem(45).Efficiency(0) != nil {
		t.Fatalf("unknown expected duration has no efficiency")
	}
}

func TestItemIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	started := now.Add(-90 * time.Minute)

	it := OrderItem{StartedAt: &started}
	if !it.IsOverdue(now, 60) {
		t.Fatalf("90 min against 60 expected should be overdue")
	}
	if it.IsOverdue(now, 120) {
		t.Fatalf("90 min against 120 expected should not be overdue")
	}
	// Unknown expected duration falls back to the 60 minute default.
	if !it.IsOverdue(now, 0) {
		t.Fatalf("default duration should apply when expected is unknown")
	}

	done := now.Add(-10 * time.Minute)
	it.CompletedAt = &done
	if it.IsOverdue(now, 60) {
		t.Fatalf("completed item is never overdue")
	}
}

func TestAppendTimestampedNote(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC)

	first := AppendTimestampedNote("", "Cancelled: customer left", now)
	if first != "[2024-01-01 12:30:45] Cancelled: customer left" {
		t.Fatalf("unexpected note line: %q", first)
	}

	second := AppendTimestampedNote(first, "Refunded KES 500.00", now.Add(time.Minute))
	lines := strings.Split(second, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), second)
	}
	if lines[0] != first {
		t.Fatalf("existing notes must be preserved")
	}
	if !strings.HasPrefix(lines[1], "[2024-01-01 12:31:45] ") {
		t.Fatalf("second line missing timestamp: %q", lines[1])
	}
}
