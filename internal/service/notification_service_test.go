package service

import (
	"fmt"
	"testing"
)

func TestNotificationCenter_PushAndDrain(t *testing.T) {
	center := NewNotificationCenter()

	center.Notify("u1", "first", "success")
	center.Notify("u1", "second", "error")
	center.Notify("u2", "other user", "info")

	drained := center.Drain("u1")
	if len(drained) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(drained))
	}
	if drained[0].Message != "first" || drained[1].Message != "second" {
		t.Fatalf("expected FIFO order, got %+v", drained)
	}

	if again := center.Drain("u1"); len(again) != 0 {
		t.Fatalf("drain must clear the queue, got %d", len(again))
	}
	if other := center.Drain("u2"); len(other) != 1 {
		t.Fatalf("other users' queues must be untouched, got %d", len(other))
	}
}

func TestNotificationCenter_DropsOldestWhenFull(t *testing.T) {
	center := NewNotificationCenter()

	for i := 0; i < maxPendingNotifications+5; i++ {
		center.Notify("u1", fmt.Sprintf("msg-%d", i), "info")
	}

	drained := center.Drain("u1")
	if len(drained) != maxPendingNotifications {
		t.Fatalf("expected buffer capped at %d, got %d", maxPendingNotifications, len(drained))
	}
	if drained[0].Message != "msg-5" {
		t.Fatalf("expected oldest entries dropped, first is %q", drained[0].Message)
	}
}

func TestNotificationCenter_IgnoresEmptyInput(t *testing.T) {
	center := NewNotificationCenter()

	center.Notify("", "orphan", "info")
	center.Notify("u1", "", "info")

	if got := center.Drain("u1"); len(got) != 0 {
		t.Fatalf("empty messages must be ignored, got %d", len(got))
	}
}
