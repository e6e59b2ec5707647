// Package webhooks delivers board events to operator-configured HTTP
// endpoints. Deliveries are queued in memory and retried with backoff.
package webhooks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Target is one receiving endpoint. Secret signs the body when set.
type Target struct {
	URL    string
	Secret string
}

type Publisher struct {
	Targets []Target
	Queue   *Queue
	// Events limits which event types are sent; empty sends all.
	Events map[string]bool
}

func NewPublisher(q *Queue, targets ...Target) *Publisher {
	return &Publisher{Targets: targets, Queue: q}
}

// Emit queues eventType with data for every target.
func (p *Publisher) Emit(eventType string, data any) {
	if len(p.Targets) == 0 || (len(p.Events) > 0 && !p.Events[eventType]) {
		return
	}
	now := time.Now().UTC()
	payload := map[string]any{
		"id":   "evt_" + uuid.New().String(),
		"type": eventType,
		"ts":   now.Format(time.RFC3339),
		"data": data,
	}
	body, _ := json.Marshal(payload)
	for _, t := range p.Targets {
		p.Queue.Enqueue(Delivery{EventType: eventType, URL: t.URL, Secret: t.Secret, Payload: body, NextAttemptAt: now})
	}
}
