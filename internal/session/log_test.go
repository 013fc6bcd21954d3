package session

import (
	"testing"
	"time"
)

func TestAppendAssignsIDsAndKeepsOrder(t *testing.T) {
	log := NewLog()
	m1 := log.Append(SenderSystem, "boot")
	m2 := log.Append(SenderOperator, "hello")
	if m1.ID == "" || m2.ID == "" || m1.ID == m2.ID {
		t.Fatalf("expected distinct message ids, got %q and %q", m1.ID, m2.ID)
	}

	got := log.Messages()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text != "boot" || got[1].Text != "hello" {
		t.Fatalf("append order lost: %#v", got)
	}
}

func TestAppendClampsClockStepBack(t *testing.T) {
	times := []time.Time{
		time.Unix(1000, 0),
		time.Unix(999, 0),
		time.Unix(1001, 0),
	}
	i := 0
	log := NewLog()
	log.now = func() time.Time {
		ts := times[i]
		i++
		return ts
	}

	log.Append(SenderSystem, "a")
	log.Append(SenderSystem, "b")
	log.Append(SenderSystem, "c")

	got := log.Messages()
	for j := 1; j < len(got); j++ {
		if got[j].Timestamp.Before(got[j-1].Timestamp) {
			t.Fatalf("timestamps regressed at %d: %v < %v", j, got[j].Timestamp, got[j-1].Timestamp)
		}
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Append(SenderOperator, "x")
	snap := log.Messages()
	snap[0].Text = "mutated"
	if log.Messages()[0].Text != "x" {
		t.Fatalf("snapshot mutation leaked into the log")
	}
}
