// Package api implements the HTTP handlers and middleware for the trip board.
package api

import (
    "context"
    "errors"
    "fmt"
    "io"
    "log"
    "net/http"

    "golang.org/x/time/rate"

    "tripboard/internal/board"
    "tripboard/internal/config"
    "tripboard/internal/metrics"
    "tripboard/internal/store"
    "tripboard/internal/webhooks"
)

type Server struct {
    Config  config.Config
    Store   store.Store
    Board   *board.Service
    Broker  EventBroker
    Hooks   *webhooks.Publisher // nil without WEBHOOK_URLS
    limiter *rate.Limiter
}

// NewServer opens the store the config selects (DATABASE_URL, then
// REDIS_URL, else memory), picks a broker and loads the board.
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
    st, err := openStore(ctx, cfg)
    if err != nil {
        return nil, err
    }
    broker := openBroker(cfg, st)
    return newServer(ctx, cfg, st, broker)
}

func newServer(ctx context.Context, cfg config.Config, st store.Store, broker EventBroker) (*Server, error) {
    s := &Server{Config: cfg, Store: st, Broker: broker}
    if len(cfg.WebhookURLs) > 0 {
        targets := make([]webhooks.Target, 0, len(cfg.WebhookURLs))
        for _, u := range cfg.WebhookURLs { targets = append(targets, webhooks.Target{URL: u, Secret: cfg.WebhookSecret}) }
        s.Hooks = webhooks.NewPublisher(webhooks.NewQueue(), targets...)
        if len(cfg.WebhookEvents) > 0 {
            s.Hooks.Events = map[string]bool{}
            for _, e := range cfg.WebhookEvents { s.Hooks.Events[e] = true }
        }
    }
    s.Board = board.New(st, board.Options{Timeout: cfg.StoreTimeout, Notify: s.publish})
    if err := s.Board.Open(ctx, cfg.SeedDemo); err != nil {
        return nil, err
    }
    if cfg.RateRPS > 0 {
        s.limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
    }
    metrics.RegisterDefault()
    return s, nil
}

// openBroker shares the Redis store's client when there is one and falls
// back to the in-process broker when Redis is unreachable.
func openBroker(cfg config.Config, st store.Store) EventBroker {
    if cfg.RedisURL == "" { return NewBroker() }
    var (
        rb  *RedisBroker
        err error
    )
    if sr, ok := st.(*store.Redis); ok {
        rb, err = NewRedisBrokerClient(sr.Client())
    } else {
        rb, err = NewRedisBroker(cfg.RedisURL)
    }
    if err != nil {
        log.Printf("redis broker unavailable, using in-memory: %v", err)
        return NewBroker()
    }
    return rb
}

// Close releases the broker and store connections. Call it after the HTTP
// server has shut down and the board has been flushed.
func (s *Server) Close() error {
    var errs []error
    if c, ok := s.Broker.(io.Closer); ok {
        if err := c.Close(); err != nil { errs = append(errs, fmt.Errorf("close broker: %w", err)) }
    }
    if c, ok := s.Store.(io.Closer); ok {
        if err := c.Close(); err != nil { errs = append(errs, fmt.Errorf("close store: %w", err)) }
    }
    return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
    switch cfg.Backend() {
    case "postgres":
        sp, err := store.NewPostgres(cfg.DatabaseURL, cfg.StoreKey)
        if err != nil {
            return nil, fmt.Errorf("postgres store: %w", err)
        }
        if err := sp.Migrate(ctx); err != nil {
            return nil, fmt.Errorf("postgres migrate: %w", err)
        }
        return sp, nil
    case "redis":
        sr, err := store.NewRedis(cfg.RedisURL, cfg.StoreKey)
        if err != nil {
            return nil, fmt.Errorf("redis store: %w", err)
        }
        return sr, nil
    }
    return store.NewMemory(), nil
}

// publish forwards board events to stream subscribers.
func (s *Server) publish(e board.Event) {
    data := map[string]any{}
    for k, v := range e.Data { data[k] = v }
    if e.TripID != "" { data["tripId"] = e.TripID }
    s.Broker.Publish(board.Topic, SSEEvent{Type: e.Type, Data: data})
    if s.Hooks != nil { s.Hooks.Emit(e.Type, data) }
}

// NewWebhookWorker creates the background delivery worker, or nil when no
// webhook targets are configured.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
    if s.Hooks == nil { return nil }
    return webhooks.NewWorker(s.Hooks.Queue, s.Config.WebhookMaxAttempts)
}

// Routes registers every endpoint on a new mux and wraps it in the
// rate limiter and metrics middleware.
func (s *Server) Routes() http.Handler {
    mux := http.NewServeMux()

    // Trips
    mux.HandleFunc("/v1/trips", s.TripsHandler)
    mux.HandleFunc("/v1/trips/", s.TripByIDHandler) // includes /legs, /status, /severity

    // Board
    mux.HandleFunc("/v1/board", s.BoardHandler)
    mux.HandleFunc("/v1/board/segments", s.SegmentsHandler)
    mux.HandleFunc("/v1/board/events/stream", s.BoardEventsHandler)
    mux.HandleFunc("/v1/board/ws", s.BoardWSHandler)

    // Import / export
    mux.HandleFunc("/v1/export", s.ExportHandler)
    mux.HandleFunc("/v1/import", s.ImportHandler)

    // Health
    mux.HandleFunc("/healthz", s.HealthHandler)
    mux.HandleFunc("/readyz", s.ReadyHandler)
    mux.Handle("/metrics", metrics.Handler())
    mux.HandleFunc("/debug", s.DebugJSON)

    return metricsMiddleware(s.rateLimit(mux))
}
