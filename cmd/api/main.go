package main

import (
    "context"
    "errors"
    "log"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "tripboard/internal/api"
    "tripboard/internal/buildinfo"
    "tripboard/internal/config"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    srvDeps, err := api.NewServer(ctx, cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }

    // Retry failed saves in the background
    flusher, err := srvDeps.Board.StartFlusher(cfg.FlushSchedule)
    if err != nil {
        log.Fatalf("failed to schedule flush: %v", err)
    }

    // Start webhook worker
    if worker := srvDeps.NewWebhookWorker(); worker != nil {
        worker.Start()
        defer close(worker.Stop)
    }

    addr := ":" + cfg.Port
    srv := &http.Server{
        Addr:              addr,
        Handler:           logMiddleware(srvDeps.Routes()),
        ReadHeaderTimeout: 5 * time.Second,
    }

    closed := make(chan struct{})
    go func() {
        defer close(closed)
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        <-flusher.Stop().Done()
        if err := srvDeps.Board.Flush(shutdownCtx); err != nil {
            log.Printf("final flush failed: %v", err)
        }
        _ = srv.Shutdown(shutdownCtx)
        if err := srvDeps.Close(); err != nil {
            log.Printf("close: %v", err)
        }
    }()

    log.Printf("tripboard %s listening on %s (store=%s)", buildinfo.Version, addr, srvDeps.Store.Name())
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Fatalf("server error: %v", err)
    }
    <-closed
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}
