// Package notify keeps the per-session queues of transient toast
// notifications emitted by cart mutations.
package notify

import (
	"sync"
	"time"

	"github.com/agritrace/agritrace/internal/domain/models"
)

// DefaultTTL is how long a toast stays visible before self-dismissing.
const DefaultTTL = 3 * time.Second

type entry struct {
	toast     models.Toast
	expiresAt time.Time
}

// ToastQueue is a concurrency-safe, self-expiring notification queue.
// Pushes never block; expired entries are dropped lazily on read.
type ToastQueue struct {
	mu      sync.Mutex
	entries map[string][]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewToastQueue creates a queue with the default 3 second display TTL.
func NewToastQueue() *ToastQueue {
	return &ToastQueue{
		entries: make(map[string][]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// Push appends a toast to the session's queue and returns it. The toast id
// is the unix-millisecond creation time.
func (q *ToastQueue) Push(sessionID, message string) models.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	created := q.now()
	toast := models.Toast{ID: created.UnixMilli(), Message: message}
	q.entries[sessionID] = append(q.entries[sessionID], entry{
		toast:     toast,
		expiresAt: created.Add(q.ttl),
	})
	return toast
}

// Active returns the session's not-yet-expired toasts, oldest first, and
// compacts the queue.
func (q *ToastQueue) Active(sessionID string) []models.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.entries[sessionID][:0]
	alive := make([]models.Toast, 0, len(q.entries[sessionID]))
	for _, e := range q.entries[sessionID] {
		if e.expiresAt.After(now) {
			kept = append(kept, e)
			alive = append(alive, e.toast)
		}
	}

	if len(kept) == 0 {
		delete(q.entries, sessionID)
	} else {
		q.entries[sessionID] = kept
	}
	return alive
}

// Clear drops every toast for the session.
func (q *ToastQueue) Clear(sessionID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, sessionID)
}
