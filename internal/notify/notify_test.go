package notify

import (
	"testing"
	"time"
)

func TestCenterPostAndActive(t *testing.T) {
	c := NewCenter(time.Minute)

	c.Success("Transaction created")
	c.Error("Error 400: amount is required")

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("Active() returned %d messages, want 2", len(active))
	}
	if active[0].Level != LevelSuccess || active[0].Text != "Transaction created" {
		t.Errorf("first message = %+v", active[0])
	}
	if active[1].Level != LevelError {
		t.Errorf("second message level = %q, want error", active[1].Level)
	}
	if active[0].ID == active[1].ID {
		t.Error("messages should get distinct IDs")
	}
}

func TestCenterExpiry(t *testing.T) {
	c := NewCenter(5 * time.Second)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	c.Info("first")
	current = base.Add(3 * time.Second)
	c.Info("second")

	current = base.Add(6 * time.Second)
	active := c.Active()
	if len(active) != 1 {
		t.Fatalf("Active() after expiry returned %d messages, want 1", len(active))
	}
	if active[0].Text != "second" {
		t.Errorf("surviving message = %q, want second", active[0].Text)
	}

	current = base.Add(10 * time.Second)
	if got := c.Active(); len(got) != 0 {
		t.Errorf("Active() after full expiry returned %d messages, want 0", len(got))
	}
}

func TestCenterDismiss(t *testing.T) {
	c := NewCenter(time.Minute)

	kept := c.Info("keep me")
	gone := c.Info("dismiss me")

	c.Dismiss(gone.ID)
	c.Dismiss(9999) // unknown IDs are ignored

	active := c.Active()
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Fatalf("Active() after dismiss = %+v, want only %d", active, kept.ID)
	}
}
