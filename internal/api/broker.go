package api

import (
    "sync"
)

type SSEEvent struct {
    Type string         `json:"type"`
    Data map[string]any `json:"data"`
}

// EventBroker fans board events out to stream subscribers by topic.
type EventBroker interface {
    Subscribe(topic string) chan SSEEvent
    Unsubscribe(topic string, ch chan SSEEvent)
    Publish(topic string, evt SSEEvent)
}

// Broker is the in-process EventBroker. Slow subscribers miss events
// rather than block publishers.
type Broker struct {
    mu      sync.Mutex
    subs    map[string]map[chan SSEEvent]struct{} // topic -> set of channels
}

func NewBroker() *Broker {
    return &Broker{subs: map[string]map[chan SSEEvent]struct{}{}}
}

func (b *Broker) Subscribe(topic string) chan SSEEvent {
    ch := make(chan SSEEvent, 16)
    b.mu.Lock()
    if b.subs[topic] == nil { b.subs[topic] = map[chan SSEEvent]struct{}{} }
    b.subs[topic][ch] = struct{}{}
    b.mu.Unlock()
    return ch
}

func (b *Broker) Unsubscribe(topic string, ch chan SSEEvent) {
    b.mu.Lock()
    defer b.mu.Unlock()
    m := b.subs[topic]
    if _, ok := m[ch]; !ok { return }
    delete(m, ch)
    if len(m) == 0 { delete(b.subs, topic) }
    close(ch)
}

func (b *Broker) Publish(topic string, evt SSEEvent) {
    b.mu.Lock()
    defer b.mu.Unlock()
    for ch := range b.subs[topic] {
        select { case ch <- evt: default: }
    }
}

// Subscribers reports the number of open subscriptions on topic.
func (b *Broker) Subscribers(topic string) int {
    b.mu.Lock()
    defer b.mu.Unlock()
    return len(b.subs[topic])
}
