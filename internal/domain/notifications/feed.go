package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"crewledger/internal/domain/ledger"
)

const defaultCapacity = 500

// Item is one feed entry shown to the foreman. Error carries the message of
// a rejected command; successful commands leave it empty.
type Item struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	EmployeeID string         `json:"employeeId,omitempty"`
	Message    string         `json:"message"`
	Error      string         `json:"error,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Read       bool           `json:"read"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Feed is an in-memory ring of recent ledger events. It satisfies
// ledger.Emitter so the service publishes into it directly; once the feed is
// full the oldest items roll off.
type Feed struct {
	mu       sync.Mutex
	capacity int
	items    []Item
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Feed{capacity: capacity}
}

func (f *Feed) Emit(event ledger.Event) {
	item := Item{
		ID:         uuid.NewString(),
		Kind:       event.Kind,
		EmployeeID: event.EmployeeID,
		Message:    event.Message,
		Error:      event.Err,
		Payload:    event.Payload,
		CreatedAt:  event.At,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	if len(f.items) > f.capacity {
		f.items = f.items[len(f.items)-f.capacity:]
	}
}

// List returns items newest first. With unreadOnly set, read items are
// skipped.
func (f *Feed) List(unreadOnly bool) []Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Item, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		if unreadOnly && f.items[i].Read {
			continue
		}
		out = append(out, f.items[i])
	}
	return out
}

func (f *Feed) MarkRead(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return true
		}
	}
	return false
}

func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for i := range f.items {
		if !f.items[i].Read {
			count++
		}
	}
	return count
}
