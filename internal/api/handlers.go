package api

import (
    "context"
    "net/http"
    "strings"
    "time"

    "tripboard/internal/model"
    "tripboard/internal/schedule"
)

// TripsHandler handles GET/POST /v1/trips
func (s *Server) TripsHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/trips" { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    switch r.Method {
    case http.MethodGet:
        items := s.Board.List()
        if tag := r.URL.Query().Get("tag"); tag != "" {
            items = filterByTag(items, tag)
        }
        writeJSON(w, http.StatusOK, map[string]any{"items": items})
    case http.MethodPost:
        var in model.TripInput
        if err := decodeJSON(w, r, &in); err != nil {
            writeError(w, r, "Invalid trip", err)
            return
        }
        if err := validateTripInput(in); err != nil {
            writeError(w, r, "Invalid trip", err)
            return
        }
        m, err := s.Board.Create(r.Context(), in)
        if err != nil {
            writeError(w, r, "Create trip failed", err)
            return
        }
        writeJSON(w, http.StatusCreated, m)
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func filterByTag(items []model.TripView, tag string) []model.TripView {
    out := items[:0]
    for _, it := range items {
        for _, t := range it.Tags {
            if strings.EqualFold(t, tag) { out = append(out, it); break }
        }
    }
    return out
}

// TripByIDHandler handles everything under /v1/trips/{id}
func (s *Server) TripByIDHandler(w http.ResponseWriter, r *http.Request) {
    path := r.URL.Path
    // Expected: /v1/trips/{id}, /severity, /legs, /legs/{i}, /legs/{i}/status/{key}
    rest := strings.Trim(strings.TrimPrefix(path, "/v1/trips/"), "/")
    if rest == "" {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", path)
        return
    }
    parts := strings.Split(rest, "/")
    id := parts[0]
    switch {
    case len(parts) == 1:
        s.tripHandler(w, r, id)
    case len(parts) == 2 && parts[1] == "severity":
        s.severityHandler(w, r, id)
    case len(parts) == 2 && parts[1] == "legs":
        s.insertLegHandler(w, r, id)
    case len(parts) == 3 && parts[1] == "legs":
        s.legHandler(w, r, id, parts[2])
    case len(parts) == 5 && parts[1] == "legs" && parts[3] == "status":
        s.statusHandler(w, r, id, parts[2], model.StatusKey(parts[4]))
    default:
        writeProblem(w, http.StatusNotFound, "Not Found", "", path)
    }
}

func (s *Server) tripHandler(w http.ResponseWriter, r *http.Request, id string) {
    switch r.Method {
    case http.MethodGet:
        v, err := s.Board.Get(id)
        if err != nil { writeError(w, r, "Get trip failed", err); return }
        writeJSON(w, http.StatusOK, v)
    case http.MethodPatch:
        var p model.TripPatch
        if err := decodeJSON(w, r, &p); err != nil { writeError(w, r, "Invalid patch", err); return }
        m, err := s.Board.Patch(r.Context(), id, p)
        if err != nil { writeError(w, r, "Patch trip failed", err); return }
        writeJSON(w, http.StatusOK, m)
    case http.MethodDelete:
        m, err := s.Board.Delete(r.Context(), id)
        if err != nil { writeError(w, r, "Delete trip failed", err); return }
        writeJSON(w, http.StatusOK, m)
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func (s *Server) severityHandler(w http.ResponseWriter, r *http.Request, id string) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    v, err := s.Board.Get(id)
    if err != nil { writeError(w, r, "Get trip failed", err); return }
    writeJSON(w, http.StatusOK, map[string]any{"tripId": v.ID, "severity": v.Severity, "legs": v.LegSeverity})
}

// insertLegHandler handles POST /v1/trips/{id}/legs?at=N. The body is an
// optional leg; without one a blank leg is inserted. No at appends.
func (s *Server) insertLegHandler(w http.ResponseWriter, r *http.Request, id string) {
    if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
    at := -1
    if v := r.URL.Query().Get("at"); v != "" {
        i, err := parseIndex(v)
        if err != nil { writeError(w, r, "Invalid leg index", err); return }
        at = i
    }
    var leg model.Leg
    present, err := decodeOptionalJSON(w, r, &leg)
    if err != nil { writeError(w, r, "Invalid leg", err); return }
    var lp *model.Leg
    if present {
        if err := validateLeg(leg); err != nil { writeError(w, r, "Invalid leg", err); return }
        lp = &leg
    }
    m, err := s.Board.InsertLeg(r.Context(), id, at, lp)
    if err != nil { writeError(w, r, "Insert leg failed", err); return }
    writeJSON(w, http.StatusCreated, m)
}

func (s *Server) legHandler(w http.ResponseWriter, r *http.Request, id, idx string) {
    at, err := parseIndex(idx)
    if err != nil { writeError(w, r, "Invalid leg index", err); return }
    switch r.Method {
    case http.MethodPatch:
        var p model.LegPatch
        if err := decodeJSON(w, r, &p); err != nil { writeError(w, r, "Invalid leg patch", err); return }
        if err := validateLegPatch(p); err != nil { writeError(w, r, "Invalid leg patch", err); return }
        m, err := s.Board.UpdateLeg(r.Context(), id, at, p)
        if err != nil { writeError(w, r, "Update leg failed", err); return }
        writeJSON(w, http.StatusOK, m)
    case http.MethodDelete:
        m, err := s.Board.RemoveLeg(r.Context(), id, at)
        if err != nil { writeError(w, r, "Remove leg failed", err); return }
        writeJSON(w, http.StatusOK, m)
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request, id, idx string, key model.StatusKey) {
    if r.Method != http.MethodPut { w.WriteHeader(http.StatusMethodNotAllowed); return }
    at, err := parseIndex(idx)
    if err != nil { writeError(w, r, "Invalid leg index", err); return }
    var upd model.StatusUpdate
    if err := decodeJSON(w, r, &upd); err != nil { writeError(w, r, "Invalid status", err); return }
    m, err := s.Board.SetStatus(r.Context(), id, at, key, upd)
    if err != nil { writeError(w, r, "Set status failed", err); return }
    writeJSON(w, http.StatusOK, m)
}

// BoardHandler handles GET /v1/board?from=YYYY-MM-DD&days=N
func (s *Server) BoardHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    from, days, err := s.window(r)
    if err != nil { writeError(w, r, "Invalid window", err); return }
    writeJSON(w, http.StatusOK, s.Board.Board(from, days))
}

func (s *Server) window(r *http.Request) (model.Date, int, error) {
    q := r.URL.Query()
    from, err := parseDate(q.Get("from"), s.Board.Today())
    if err != nil { return "", 0, err }
    days, err := parseDays(q.Get("days"), s.Config.BoardDays)
    if err != nil { return "", 0, err }
    return from, days, nil
}

// SegmentsHandler previews the day segments of an arbitrary interval.
func (s *Server) SegmentsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    q := r.URL.Query()
    start, err := parseInstant("start", q.Get("start"))
    if err != nil { writeError(w, r, "Invalid interval", err); return }
    end, err := parseInstant("end", q.Get("end"))
    if err != nil { writeError(w, r, "Invalid interval", err); return }
    leg := schedule.NewLeg()
    leg.StartUTC, leg.EndUTC = &start, &end
    segs := schedule.Segment(leg)
    if segs == nil { segs = []model.DaySegment{} }
    writeJSON(w, http.StatusOK, map[string]any{"segments": segs})
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
    defer cancel()
    if err := s.Board.Ping(ctx); err != nil { writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path); return }
    writeJSON(w, 200, map[string]any{"status": "ready", "board": s.Board.State()})
}
