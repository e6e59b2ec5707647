package metrics

import (
    "net/http"
    "sync"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    // Registry is the dedicated Prometheus registry for the API
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )

    // BoardRenders counts board builds
    BoardRenders = prometheus.NewCounter(prometheus.CounterOpts{Name: "board_renders_total", Help: "Board renders."})
    // BoardSegments is the segment count of the last render
    BoardSegments = prometheus.NewGauge(prometheus.GaugeOpts{Name: "board_segments", Help: "Day segments in the last rendered board."})
    // BoardMaxLanes is the widest (aircraft, day) lane count of the last render
    BoardMaxLanes = prometheus.NewGauge(prometheus.GaugeOpts{Name: "board_max_lanes", Help: "Maximum lanes used by one aircraft on one day in the last render."})
    // Trips tracks the size of the in-memory trip list
    Trips = prometheus.NewGauge(prometheus.GaugeOpts{Name: "board_trips", Help: "Trips held by the board."})

    // PersistResults counts store saves by backend and result (ok, error)
    PersistResults = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "board_persist_total", Help: "Store saves by backend and result."},
        []string{"backend", "result"},
    )
    // PersistLatency tracks store save latency in ms
    PersistLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "board_persist_latency_ms", Help: "Store save latency in ms.", Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 3000}},
        []string{"backend"},
    )

    // WebhookDeliveries counts webhook delivery outcomes by event type and status (ok, retry, dead)
    WebhookDeliveries = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
        []string{"event_type", "status"},
    )
    // WebhookLatency tracks webhook delivery latencies in milliseconds
    WebhookLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
        []string{"event_type", "status"},
    )
)

// RegisterDefault registers collectors to the API registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(BoardRenders, BoardSegments, BoardMaxLanes, Trips)
        Registry.MustRegister(PersistResults)
        Registry.MustRegister(PersistLatency)
        Registry.MustRegister(WebhookDeliveries)
        Registry.MustRegister(WebhookLatency)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
    RegisterDefault()
    return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

var regOnce sync.Once
