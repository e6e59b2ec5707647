//go:build postgres_integration

package store

import (
    "context"
    "errors"
    "os"
    "testing"
)

func TestPostgresSaveLoad(t *testing.T) {
    dsn := os.Getenv("DATABASE_URL")
    if dsn == "" { t.Skip("DATABASE_URL not set; skipping integration test") }
    ctx := context.Background()
    p, err := NewPostgres(dsn, "it_"+t.Name())
    if err != nil { t.Fatalf("NewPostgres: %v", err) }
    defer p.Close()
    if err := p.Migrate(ctx); err != nil { t.Fatalf("Migrate: %v", err) }
    if _, err := p.Load(ctx); err != nil && !errors.Is(err, ErrAbsent) { t.Fatalf("Load: %v", err) }
    if err := p.Save(ctx, []byte(`{"version":2,"trips":[]}`)); err != nil { t.Fatalf("Save: %v", err) }
    b, err := p.Load(ctx)
    if err != nil { t.Fatalf("Load after save: %v", err) }
    if len(b) == 0 { t.Fatalf("empty document") }
}
