package models

import (
	"testing"
	"time"
)

func TestPaymentStatusFor(t *testing.T) {
	cases := []struct {
		paid, total float64
		want        string
	}{
		{0, 1000, PayUnpaid},
		{-50, 1000, PayUnpaid},
		{400, 1000, PayPartial},
		{999.99, 1000, PayPartial},
		{1000, 1000, PayPaid},
		{1200, 1000, PayOverpaid},
	}
	for _, c := range cases {
		if got := PaymentStatusFor(c.paid, c.total); got != c.want {
			t.Fatalf("PaymentStatusFor(%v, %v) = %q, want %q", c.paid, c.total, got, c.want)
		}
	}
}

func TestOrderNumberSequence(t *testing.T) {
	day := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	if got := FormatOrderNumber(day, 7); got != "ORD-20240101-007" {
		t.Fatalf("unexpected order number: %q", got)
	}

	seq, ok := ParseOrderSequence("ORD-20240101-007")
	if !ok || seq != 7 {
		t.Fatalf("parse failed: seq=%d ok=%v", seq, ok)
	}
	if got := FormatOrderNumber(day, seq+1); got != "ORD-20240101-008" {
		t.Fatalf("next number wrong: %q", got)
	}

	if _, ok := ParseOrderSequence("garbage"); ok {
		t.Fatalf("garbage should not parse")
	}
	if _, ok := ParseOrderSequence("ORD-20240101-xyz"); ok {
		t.Fatalf("non-numeric suffix should not parse")
	}
}

func TestOrderIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	started := now.Add(-5 * time.Hour)

	o := ServiceOrder{Status: StatusInProgress, StartedAt: &started}
	if !o.IsOverdue(now) {
		t.Fatalf("order running 5h should be overdue")
	}

	recent := now.Add(-1 * time.Hour)
	o.StartedAt = &recent
	if o.IsOverdue(now) {
		t.Fatalf("order running 1h should not be overdue")
	}

	o.Status = StatusCompleted
	o.StartedAt = &started
	if o.IsOverdue(now) {
		t.Fatalf("completed order is never overdue")
	}

	pending := ServiceOrder{Status: StatusPending}
	if pending.IsOverdue(now) {
		t.Fatalf("order without start time is never overdue")
	}
}

func TestOrderDurationFrozenAtCompletion(t *testing.T) {
	started := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(45 * time.Minute)
	now := started.Add(3 * time.Hour)

	o := ServiceOrder{StartedAt: &started, CompletedAt: &completed}
	d := o.DurationMinutes(now)
	if d == nil || *d != 45 {
		t.Fatalf("duration should freeze at completion, got %v", d)
	}

	running := ServiceOrder{StartedAt: &started}
	d = running.DurationMinutes(now)
	if d == nil || *d != 180 {
		t.Fatalf("running duration wrong, got %v", d)
	}

	if (ServiceOrder{}).DurationMinutes(now) != nil {
		t.Fatalf("order without start time has no duration")
	}
}

func TestOrderTransitions(t *testing.T) {
	if !(ServiceOrder{Status: StatusPending}).CanStart() {
		t.Fatalf("pending order should be startable")
	}
	if (ServiceOrder{Status: StatusInProgress}).CanStart() {
		t.Fatalf("in-progress order should not be startable")
	}
	if !(ServiceOrder{Status: StatusInProgress}).CanFinish() {
		t.Fatalf("in-progress order should be finishable")
	}
	if (ServiceOrder{Status: StatusCompleted}).CanFinish() {
		t.Fatalf("completed order is terminal")
	}
	if !(ServiceOrder{Status: StatusCancelled}).IsTerminal() {
		t.Fatalf("cancelled order is terminal")
	}
}
