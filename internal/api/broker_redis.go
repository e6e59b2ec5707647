package api

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// RedisBroker implements EventBroker over Redis Pub/Sub so several API
// replicas share one event stream.
type RedisBroker struct {
    rdb   *redis.Client
    owned bool
    mu    sync.Mutex
    ps    map[chan SSEEvent]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, err }
    b, err := NewRedisBrokerClient(redis.NewClient(opt))
    if err != nil { return nil, err }
    b.owned = true
    return b, nil
}

// NewRedisBrokerClient publishes over an existing client, such as the Redis
// store's. Close leaves a shared client open.
func NewRedisBrokerClient(rdb *redis.Client) (*RedisBroker, error) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := rdb.Ping(ctx).Err(); err != nil {
        return nil, err
    }
    return &RedisBroker{rdb: rdb, ps: map[chan SSEEvent]*redis.PubSub{}}, nil
}

// Close ends every subscription and closes the client if the broker opened it.
func (b *RedisBroker) Close() error {
    b.mu.Lock()
    subs := b.ps
    b.ps = map[chan SSEEvent]*redis.PubSub{}
    for ch := range subs { close(ch) }
    b.mu.Unlock()
    for _, ps := range subs { _ = ps.Close() }
    if b.owned { return b.rdb.Close() }
    return nil
}

func (b *RedisBroker) Subscribe(topic string) chan SSEEvent {
    ch := make(chan SSEEvent, 16)
    ctx := context.Background()
    ps := b.rdb.Subscribe(ctx, b.chanName(topic))
    // initial consume to ensure subscription
    if _, err := ps.Receive(ctx); err != nil {
        log.Printf("redis broker: subscribe %s: %v", topic, err)
    }
    b.mu.Lock()
    b.ps[ch] = ps
    b.mu.Unlock()
    msgs := ps.Channel()
    go func() {
        for msg := range msgs {
            var evt SSEEvent
            if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
                b.deliver(ch, evt)
            }
        }
    }()
    return ch
}

// deliver holds the lock so Unsubscribe cannot close ch mid-send.
func (b *RedisBroker) deliver(ch chan SSEEvent, evt SSEEvent) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if _, ok := b.ps[ch]; !ok { return }
    select { case ch <- evt: default: }
}

func (b *RedisBroker) Unsubscribe(topic string, ch chan SSEEvent) {
    b.mu.Lock()
    ps, ok := b.ps[ch]
    delete(b.ps, ch)
    if ok { close(ch) }
    b.mu.Unlock()
    if ok { _ = ps.Close() }
}

func (b *RedisBroker) Publish(topic string, evt SSEEvent) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    data, _ := json.Marshal(evt)
    if err := b.rdb.Publish(ctx, b.chanName(topic), data).Err(); err != nil {
        log.Printf("redis broker: publish %s: %v", evt.Type, err)
    }
}

func (b *RedisBroker) chanName(topic string) string { return "tripboard:events:" + topic }
