// Package codec reads and writes trip list documents. Decoding is the system
// boundary: legacy leg fields are migrated and every trip is normalized here,
// so nothing downstream has to defend against old or partial records.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"tripboard/internal/model"
	"tripboard/internal/schedule"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DocumentVersion is written into every encoded document.
const DocumentVersion = 2

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts json, yaml or yml (case-insensitive); empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// ContentType returns the media type for f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Document is the persisted/exported envelope.
type Document struct {
	Version int            `json:"version" yaml:"version"`
	SavedAt time.Time      `json:"savedAt" yaml:"savedAt"`
	Trips   model.TripList `json:"trips" yaml:"trips"`
}

// Encode writes trips as a versioned document.
func Encode(trips model.TripList, f Format, now time.Time) ([]byte, error) {
	if trips == nil {
		trips = model.TripList{}
	}
	doc := Document{Version: DocumentVersion, SavedAt: now.UTC(), Trips: trips}
	switch f {
	case FormatJSON:
		return json.Marshal(doc)
	case FormatYAML:
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("encode %q: %w", f, ErrUnsupportedFormat)
}

// Decode reads a document (or a bare list of trips), migrates legacy legs,
// fills missing trip ids and normalizes every trip. Trip ids are unique in
// the result: a repeated id is replaced with a fresh one.
func Decode(data []byte, f Format, today time.Time) (model.TripList, error) {
	switch f {
	case FormatJSON:
	case FormatYAML:
		// yaml -> generic -> json keeps one set of field rules for both formats
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		b, err := json.Marshal(plainScalars(generic))
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		data = b
	default:
		return nil, fmt.Errorf("decode %q: %w", f, ErrUnsupportedFormat)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	out := make(model.TripList, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		trip := rec.toTrip()
		if trip.ID == "" || seen[trip.ID] {
			trip.ID = uuid.New().String()
		}
		seen[trip.ID] = true
		out = append(out, schedule.NormalizeTrip(trip, today))
	}
	return out, nil
}

// yaml resolves an unquoted 2026-03-02 to a timestamp and an unquoted 0800
// to a number. Date and clock fields are turned back into the text json
// expects for them.
var (
	dateFields  = map[string]bool{"day": true, "arrDay": true, "startDate": true, "endDate": true}
	clockFields = map[string]bool{"dep": true, "arr": true}
)

func plainScalars(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			switch {
			case dateFields[k]:
				if t, ok := e.(time.Time); ok {
					x[k] = t.Format(model.DateLayout)
					continue
				}
			case clockFields[k]:
				switch n := e.(type) {
				case int:
					x[k] = fmt.Sprintf("%04d", n)
					continue
				case float64:
					if n == float64(int(n)) {
						x[k] = fmt.Sprintf("%04d", int(n))
						continue
					}
				}
			}
			x[k] = plainScalars(e)
		}
	case []any:
		for i, e := range x {
			x[i] = plainScalars(e)
		}
	}
	return v
}

func decodeRecords(data []byte) ([]tripRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []tripRecord
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode trips: %w", err)
		}
		return list, nil
	}
	var doc struct {
		Version int          `json:"version"`
		Trips   []tripRecord `json:"trips"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("document version %d is newer than %d", doc.Version, DocumentVersion)
	}
	return doc.Trips, nil
}
