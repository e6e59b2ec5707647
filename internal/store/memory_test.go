package store

import (
    "context"
    "errors"
    "testing"
)

func TestMemoryLoadSave(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()
    if _, err := m.Load(ctx); !errors.Is(err, ErrAbsent) { t.Fatalf("want ErrAbsent, got %v", err) }
    doc := []byte(`{"trips":[]}`)
    if err := m.Save(ctx, doc); err != nil { t.Fatalf("save: %v", err) }
    doc[0] = 'x'
    got, err := m.Load(ctx)
    if err != nil { t.Fatalf("load: %v", err) }
    if string(got) != `{"trips":[]}` { t.Fatalf("stored document aliased caller buffer: %s", got) }
    if m.Saves() != 1 { t.Fatalf("saves: %d", m.Saves()) }
    if m.Name() != "memory" { t.Fatalf("name: %s", m.Name()) }
}

func TestRedisBadURL(t *testing.T) {
    if _, err := NewRedis("not a url", ""); err == nil { t.Fatal("expected parse error") }
}
