package store

import (
    "context"
    "sync"
)

// Memory is a simple in-memory store used when no DATABASE_URL or REDIS_URL is set.
type Memory struct {
    mu    sync.Mutex
    doc   []byte
    saved bool
    saves int
}

func NewMemory() *Memory {
    return &Memory{}
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if !m.saved { return nil, ErrAbsent }
    return append([]byte(nil), m.doc...), nil
}

func (m *Memory) Save(ctx context.Context, doc []byte) error {
    m.mu.Lock(); defer m.mu.Unlock()
    m.doc = append([]byte(nil), doc...)
    m.saved = true
    m.saves++
    return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Name() string { return "memory" }

// Saves reports how many times Save succeeded.
func (m *Memory) Saves() int {
    m.mu.Lock(); defer m.mu.Unlock()
    return m.saves
}
