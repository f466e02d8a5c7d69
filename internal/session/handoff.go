package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Handoff passes an already-loaded entity from one view to the next, so a
// detail view can render immediately while it refreshes. Entries expire
// after a fixed TTL and the oldest are evicted past capacity.
type Handoff struct {
	lru *expirable.LRU[string, any]
}

func NewHandoff(capacity int, ttl time.Duration) *Handoff {
	if capacity < 1 {
		capacity = 1
	}
	return &Handoff{lru: expirable.NewLRU[string, any](capacity, nil, ttl)}
}

func handoffKey(kind, id string) string {
	return kind + "/" + id
}

// Put stores v under kind/id, replacing any previous entry.
func (h *Handoff) Put(kind, id string, v any) {
	h.lru.Add(handoffKey(kind, id), v)
}

// Peek returns the entry without consuming it.
func (h *Handoff) Peek(kind, id string) (any, bool) {
	return h.lru.Peek(handoffKey(kind, id))
}

// Take returns the entry and removes it.
func (h *Handoff) Take(kind, id string) (any, bool) {
	key := handoffKey(kind, id)
	v, ok := h.lru.Get(key)
	if ok {
		h.lru.Remove(key)
	}
	return v, ok
}

func (h *Handoff) Purge() { h.lru.Purge() }

func (h *Handoff) Len() int { return h.lru.Len() }

// TakeAs is Take with a type check; a value of another type counts as a miss.
func TakeAs[T any](h *Handoff, kind, id string) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	v, ok := h.Take(kind, id)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
