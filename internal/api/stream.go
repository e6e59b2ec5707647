package api

import (
    "encoding/json"
    "fmt"
    "net/http"
    "sync"
    "time"

    "github.com/gorilla/websocket"

    "tripboard/internal/board"
)

var heartbeatEvery = 15 * time.Second

// BoardEventsHandler streams board events as SSE.
func (s *Server) BoardEventsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    flusher, ok := w.(http.Flusher)
    if !ok { writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path); return }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    ch := s.Broker.Subscribe(board.Topic)
    defer s.Broker.Unsubscribe(board.Topic, ch)

    heartbeat := func() {
        fmt.Fprintf(w, "event: heartbeat\n")
        fmt.Fprintf(w, "data: {\"ts\":\"%s\"}\n\n", time.Now().UTC().Format(time.RFC3339))
        flusher.Flush()
    }
    heartbeat()
    ticker := time.NewTicker(heartbeatEvery)
    defer ticker.Stop()
    for {
        select {
        case <-r.Context().Done():
            return
        case evt, ok := <-ch:
            if !ok { return }
            b, _ := json.Marshal(evt.Data)
            fmt.Fprintf(w, "event: %s\n", evt.Type)
            fmt.Fprintf(w, "data: %s\n\n", string(b))
            flusher.Flush()
        case <-ticker.C:
            heartbeat()
        }
    }
}

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsMessage struct {
    Type    string          `json:"type"`
    Event   string          `json:"event,omitempty"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

// BoardWSHandler handles /v1/board/ws. After the client sends "hello" the
// server acks and then pushes every board event as {"type":"event"}.
func (s *Server) BoardWSHandler(w http.ResponseWriter, r *http.Request) {
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    defer func() { _ = conn.Close() }()

    var wmu sync.Mutex
    write := func(v any) error {
        wmu.Lock()
        defer wmu.Unlock()
        _ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
        return conn.WriteJSON(v)
    }

    conn.SetReadLimit(1 << 16)
    _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
    conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

    var ch chan SSEEvent
    done := make(chan struct{})
    defer func() {
        close(done)
        if ch != nil { s.Broker.Unsubscribe(board.Topic, ch) }
    }()

    for {
        var msg wsMessage
        if err := conn.ReadJSON(&msg); err != nil {
            return
        }
        _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
        switch msg.Type {
        case "hello":
            if ch != nil { continue }
            ch = s.Broker.Subscribe(board.Topic)
            _ = write(wsMessage{Type: "ack"})
            go pump(ch, done, write)
        case "ping":
            _ = write(wsMessage{Type: "pong"})
        default:
            _ = write(wsMessage{Type: "error", Payload: []byte(`{"message":"unknown message type"}`)})
        }
    }
}

// pump forwards events and keepalives until done closes or a write fails.
func pump(ch chan SSEEvent, done chan struct{}, write func(any) error) {
    ticker := time.NewTicker(20 * time.Second)
    defer ticker.Stop()
    for {
        select {
        case <-done:
            return
        case evt, ok := <-ch:
            if !ok { return }
            payload, _ := json.Marshal(evt.Data)
            if err := write(wsMessage{Type: "event", Event: evt.Type, Payload: payload}); err != nil { return }
        case <-ticker.C:
            if err := write(wsMessage{Type: "ping"}); err != nil { return }
        }
    }
}
