// Package main runs a demo WebSocket client for board events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Connect WS
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/board/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteJSON(wsMessage{Type: "hello"}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s %s: %s", m.Type, m.Event, string(m.Payload))
		}
	}()

	// Create a trip with an overnight leg, then mark its crew as booked
	time.Sleep(500 * time.Millisecond)
	start := time.Now().UTC().Truncate(24 * time.Hour).Add(23 * time.Hour)
	body, _ := json.Marshal(map[string]any{
		"client":   "Demo",
		"aircraft": "G-DEMO",
		"legs": []map[string]any{{
			"startUtc": start.Format(time.RFC3339),
			"endUtc":   start.Add(150 * time.Minute).Format(time.RFC3339),
			"from":     "EGLF",
			"to":       "LFMN",
		}},
	})
	resp, err := http.Post(base+"/v1/trips", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	var created struct {
		Trip struct {
			ID string `json:"id"`
		} `json:"trip"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	_ = resp.Body.Close()
	log.Printf("Trip ID: %s", created.Trip.ID)

	req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/v1/trips/%s/legs/0/status/crew", base, created.Trip.ID),
		bytes.NewReader([]byte(`{"state":"complete","note":"booked"}`)))
	req.Header.Set("Content-Type", "application/json")
	if resp, err := http.DefaultClient.Do(req); err == nil {
		_ = resp.Body.Close()
	}

	// Wait briefly to receive a few messages
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
