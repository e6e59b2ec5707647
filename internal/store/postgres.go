package store

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    _ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres keeps the document as one jsonb row keyed by name.
type Postgres struct {
    db   *sql.DB
    name string
}

const schema = `CREATE TABLE IF NOT EXISTS board_documents (
    name     text PRIMARY KEY,
    body     jsonb NOT NULL,
    saved_at timestamptz NOT NULL DEFAULT now()
)`

func NewPostgres(dsn, name string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    if name == "" { name = "default" }
    return &Postgres{db: db, name: name}, nil
}

// Migrate creates the documents table if needed.
func (p *Postgres) Migrate(ctx context.Context) error {
    _, err := p.db.ExecContext(ctx, schema)
    return err
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
    var body string
    err := p.db.QueryRowContext(ctx, `SELECT body::text FROM board_documents WHERE name=$1`, p.name).Scan(&body)
    if errors.Is(err, sql.ErrNoRows) { return nil, ErrAbsent }
    if err != nil { return nil, fmt.Errorf("load %s: %w", p.name, err) }
    return []byte(body), nil
}

func (p *Postgres) Save(ctx context.Context, doc []byte) error {
    _, err := p.db.ExecContext(ctx, `INSERT INTO board_documents (name, body, saved_at) VALUES ($1, $2::jsonb, now())
        ON CONFLICT (name) DO UPDATE SET body=EXCLUDED.body, saved_at=EXCLUDED.saved_at`, p.name, string(doc))
    if err != nil { return fmt.Errorf("save %s: %w", p.name, err) }
    return nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Close() error { return p.db.Close() }
