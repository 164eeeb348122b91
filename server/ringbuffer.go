package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestSummary is one entry in the debug ring buffer: a bounded,
// in-memory record of a handled request, never persisted to disk and never
// growing past the configured capacity.
type RequestSummary struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Matched    string    `json:"matched"` // rule name, "proxy", or "none"
	Status     int       `json:"status"`
	LatencyMs  int64     `json:"latency_ms"`
	ObservedAt time.Time `json:"observed_at"`
}

// RingBuffer is a bounded, thread-safe circular buffer of RequestSummary.
// Entries are overwritten in place once capacity is reached; there is no
// explicit eviction or destructor.
type RingBuffer struct {
	mu       sync.Mutex
	entries  []RequestSummary
	capacity int
	next     int
	filled   bool
}

// NewRingBuffer builds a RingBuffer holding at most capacity entries.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultRingBufferSize
	}
	return &RingBuffer{entries: make([]RequestSummary, capacity), capacity: capacity}
}

// Record appends a summary, assigning it a fresh UUID, overwriting the
// oldest entry once the buffer is full.
func (b *RingBuffer) Record(method, path, matched string, status int, latency time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = RequestSummary{
		ID:         uuid.NewString(),
		Method:     method,
		Path:       path,
		Matched:    matched,
		Status:     status,
		LatencyMs:  latency.Milliseconds(),
		ObservedAt: time.Now(),
	}
	b.next = (b.next + 1) % b.capacity
	if b.next == 0 {
		b.filled = true
	}
}

// Recent returns the recorded entries, most recent first.
func (b *RingBuffer) Recent() []RequestSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	var count int
	if b.filled {
		count = b.capacity
	} else {
		count = b.next
	}

	out := make([]RequestSummary, 0, count)
	for i := 0; i < count; i++ {
		idx := (b.next - 1 - i + b.capacity) % b.capacity
		out = append(out, b.entries[idx])
	}
	return out
}
