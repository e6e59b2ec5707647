package metrics

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
)

func TestHandlerExposesRegistry(t *testing.T) {
    RegisterDefault()
    RegisterDefault() // idempotent
    PersistResults.WithLabelValues("memory", "ok").Inc()
    rr := httptest.NewRecorder()
    Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
    if rr.Code != 200 { t.Fatalf("status %d", rr.Code) }
    body := rr.Body.String()
    for _, name := range []string{"board_persist_total", "board_renders_total", "go_goroutines"} {
        if !strings.Contains(body, name) { t.Fatalf("missing %s", name) }
    }
}
