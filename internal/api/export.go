package api

import (
    "bytes"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "tripboard/internal/codec"
    "tripboard/internal/render"
)

// ExportHandler handles GET /v1/export?format=json|yaml|pdf. The pdf format
// renders the board window given by from/days.
func (s *Server) ExportHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    format := strings.ToLower(r.URL.Query().Get("format"))
    now := time.Now().UTC()
    if format == "pdf" {
        from, days, err := s.window(r)
        if err != nil { writeError(w, r, "Invalid window", err); return }
        var buf bytes.Buffer
        if err := render.BoardPDF(&buf, s.Board.Board(from, days), now); err != nil {
            writeError(w, r, "Render failed", err)
            return
        }
        w.Header().Set("Content-Type", "application/pdf")
        w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="board-%s.pdf"`, from))
        _, _ = w.Write(buf.Bytes())
        return
    }
    f, err := codec.ParseFormat(format)
    if err != nil { writeError(w, r, "Invalid format", err); return }
    b, err := codec.Encode(s.Board.Snapshot(), f, now)
    if err != nil { writeError(w, r, "Export failed", err); return }
    w.Header().Set("Content-Type", f.ContentType())
    w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trips-%s.%s"`, now.Format("20060102"), f))
    _, _ = w.Write(b)
}

// ImportHandler handles POST /v1/import?format=json|yaml. The document
// replaces the whole trip list; legacy leg shapes are migrated on decode.
func (s *Server) ImportHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
    format := r.URL.Query().Get("format")
    if format == "" && strings.Contains(r.Header.Get("Content-Type"), "yaml") { format = "yaml" }
    f, err := codec.ParseFormat(format)
    if err != nil { writeError(w, r, "Invalid format", err); return }
    body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
    if err != nil { writeError(w, r, "Read body failed", badRequest("%v", err)); return }
    trips, err := codec.Decode(body, f, time.Now())
    if err != nil { writeError(w, r, "Invalid document", badRequest("%v", err)); return }
    writeJSON(w, http.StatusOK, s.Board.Replace(r.Context(), trips))
}
