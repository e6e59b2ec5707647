package webhooks

import (
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
)

type Delivery struct {
    ID            string    `json:"id"`
    EventType     string    `json:"eventType"`
    URL           string    `json:"url"`
    Secret        string    `json:"-"`
    Payload       []byte    `json:"-"`
    Attempts      int       `json:"attempts"`
    NextAttemptAt time.Time `json:"nextAttemptAt"`
    LastError     string    `json:"lastError,omitempty"`
    ResponseCode  int       `json:"responseCode,omitempty"`
}

// Queue holds pending deliveries and a bounded dead-letter list.
type Queue struct {
    mu      sync.Mutex
    pending map[string]*Delivery
    dead    []Delivery
    maxDead int
}

func NewQueue() *Queue { return &Queue{pending: map[string]*Delivery{}, maxDead: 100} }

func (q *Queue) Enqueue(d Delivery) string {
    q.mu.Lock(); defer q.mu.Unlock()
    if d.ID == "" { d.ID = "whd_" + uuid.New().String() }
    q.pending[d.ID] = &d
    return d.ID
}

// Due returns up to limit deliveries whose next attempt is at or before now,
// oldest first.
func (q *Queue) Due(now time.Time, limit int) []Delivery {
    q.mu.Lock(); defer q.mu.Unlock()
    out := []Delivery{}
    for _, d := range q.pending {
        if !d.NextAttemptAt.After(now) { out = append(out, *d) }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].NextAttemptAt.Before(out[j].NextAttemptAt) })
    if len(out) > limit { out = out[:limit] }
    return out
}

// Mark records an attempt. Success removes the delivery; otherwise it is
// rescheduled at next.
func (q *Queue) Mark(id string, success bool, next time.Time, lastErr string, code int) {
    q.mu.Lock(); defer q.mu.Unlock()
    d, ok := q.pending[id]
    if !ok { return }
    if success { delete(q.pending, id); return }
    d.Attempts++
    d.NextAttemptAt, d.LastError, d.ResponseCode = next, lastErr, code
}

// Fail moves the delivery to the dead-letter list.
func (q *Queue) Fail(id string, lastErr string, code int) {
    q.mu.Lock(); defer q.mu.Unlock()
    d, ok := q.pending[id]
    if !ok { return }
    delete(q.pending, id)
    d.Attempts++
    d.LastError, d.ResponseCode = lastErr, code
    q.dead = append(q.dead, *d)
    if len(q.dead) > q.maxDead { q.dead = q.dead[len(q.dead)-q.maxDead:] }
}

func (q *Queue) Pending() int { q.mu.Lock(); defer q.mu.Unlock(); return len(q.pending) }

func (q *Queue) Dead() []Delivery {
    q.mu.Lock(); defer q.mu.Unlock()
    return append([]Delivery(nil), q.dead...)
}
