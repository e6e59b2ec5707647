package api

import (
    "net/http"
    "time"

    "tripboard/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
    info := map[string]any{
        "build":  buildinfo.Info(),
        "time":   time.Now().UTC().Format(time.RFC3339),
        "config": s.Config.Redacted(),
        "board":  s.Board.State(),
    }
    if s.Hooks != nil {
        info["webhooks"] = map[string]any{"pending": s.Hooks.Queue.Pending(), "dead": s.Hooks.Queue.Dead()}
    }
    writeJSON(w, http.StatusOK, info)
}
