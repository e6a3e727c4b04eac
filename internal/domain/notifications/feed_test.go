package notifications

import (
	"testing"
	"time"

	"crewledger/internal/domain/ledger"
)

func TestFeedOrdersNewestFirst(t *testing.T) {
	feed := NewFeed(10)
	feed.Emit(ledger.Event{Kind: "session.clock_in", Message: "first", At: time.Now()})
	feed.Emit(ledger.Event{Kind: "session.clock_out", Message: "second", At: time.Now()})

	items := feed.List(false)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Message != "second" || items[1].Message != "first" {
		t.Fatalf("expected newest first, got %q then %q", items[0].Message, items[1].Message)
	}
}

func TestFeedCarriesErrorText(t *testing.T) {
	feed := NewFeed(10)
	feed.Emit(ledger.Event{
		Kind:       "session.clock_in",
		EmployeeID: "emp-1",
		Err:        "employee already has an open session",
		At:         time.Now(),
	})

	items := feed.List(false)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Error != "employee already has an open session" {
		t.Fatalf("unexpected error text: %q", items[0].Error)
	}
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		feed.Emit(ledger.Event{Kind: "session.clock_in", Message: msg, At: time.Now()})
	}

	items := feed.List(false)
	if len(items) != 3 {
		t.Fatalf("expected capacity of 3, got %d", len(items))
	}
	if items[len(items)-1].Message != "b" {
		t.Fatalf("oldest surviving item should be b, got %q", items[len(items)-1].Message)
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	feed := NewFeed(10)
	feed.Emit(ledger.Event{Kind: "hourbank.banked", Message: "banked", At: time.Now()})
	feed.Emit(ledger.Event{Kind: "hourbank.used", Message: "used", At: time.Now()})

	items := feed.List(false)
	if !feed.MarkRead(items[0].ID) {
		t.Fatal("mark read failed for existing item")
	}
	if feed.MarkRead("missing-id") {
		t.Fatal("mark read succeeded for unknown item")
	}
	if got := feed.Unread(); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}
	if got := len(feed.List(true)); got != 1 {
		t.Fatalf("unread-only list should have 1 item, got %d", got)
	}
}
