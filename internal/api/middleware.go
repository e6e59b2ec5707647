package api

import (
    "bufio"
    "errors"
    "net"
    "net/http"
    "strconv"
    "strings"
    "time"

    "tripboard/internal/metrics"
)

type statusRecorder struct {
    http.ResponseWriter
    status int
}

func (r *statusRecorder) WriteHeader(code int) { r.status = code; r.ResponseWriter.WriteHeader(code) }

// Flush keeps SSE working through the recorder.
func (r *statusRecorder) Flush() {
    if f, ok := r.ResponseWriter.(http.Flusher); ok { f.Flush() }
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is required by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
    h, ok := r.ResponseWriter.(http.Hijacker)
    if !ok { return nil, nil, errors.New("hijack not supported") }
    return h.Hijack()
}

func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(rec, r)
        labels := []string{r.Method, routeLabel(r.URL.Path), strconv.Itoa(rec.status)}
        metrics.HTTPRequests.WithLabelValues(labels...).Inc()
        metrics.HTTPDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
    })
}

// routeLabel collapses ids so the path label stays low-cardinality.
func routeLabel(path string) string {
    if !strings.HasPrefix(path, "/v1/trips/") { return path }
    parts := strings.Split(strings.Trim(path, "/"), "/")
    // v1 trips {id} legs {i} status {key}
    for i := range parts {
        if i == 2 || i == 4 || i == 6 { parts[i] = "{}" }
    }
    return "/" + strings.Join(parts, "/")
}

// rateLimit rejects requests above RATE_RPS with 429. Health and metrics
// endpoints are exempt.
func (s *Server) rateLimit(next http.Handler) http.Handler {
    if s.limiter == nil { return next }
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case "/healthz", "/readyz", "/metrics":
            next.ServeHTTP(w, r)
            return
        }
        if !s.limiter.Allow() {
            w.Header().Set("Retry-After", "1")
            writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded", r.URL.Path)
            return
        }
        next.ServeHTTP(w, r)
    })
}
