// Package board owns the in-memory trip list. Every mutation runs under one
// mutex, re-derives the trip's range and is mirrored to the store. A failed
// save is reported to the caller, never rolled back, and retried by Flush.
package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripboard/internal/codec"
	"tripboard/internal/metrics"
	"tripboard/internal/model"
	"tripboard/internal/schedule"
	"tripboard/internal/store"
)

var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrInvalidState     = errors.New("unknown status state")
	ErrLegIndex         = schedule.ErrLegIndex
	ErrInvalidStatusKey = schedule.ErrStatusKey
)

// Mutation is the result of an edit. Trip is nil for deletes and imports.
type Mutation struct {
	Trip         *model.TripView `json:"trip,omitempty"`
	Count        int             `json:"count,omitempty"`
	Persisted    bool            `json:"persisted"`
	PersistError string          `json:"persistError,omitempty"`
}

// State summarizes persistence for /readyz and /debug.
type State struct {
	Trips     int       `json:"trips"`
	Backend   string    `json:"backend"`
	Dirty     bool      `json:"dirty"`
	LastError string    `json:"lastError,omitempty"`
	LastSaved time.Time `json:"lastSaved,omitempty"`
}

type Options struct {
	Timeout time.Duration    // per store call; default 3s
	Now     func() time.Time // default time.Now
	Notify  func(Event)      // optional event sink
}

type Service struct {
	mu        sync.Mutex
	trips     model.TripList
	store     store.Store
	timeout   time.Duration
	now       func() time.Time
	notify    func(Event)
	dirty     bool
	lastErr   error
	lastSaved time.Time
	pending   []Event // raised under mu, delivered by unlock
}

func New(st store.Store, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, timeout: opts.Timeout, now: opts.Now, notify: opts.Notify}
}

// Open loads the saved document. When the store has none and seed is set,
// the demo trips are installed and saved.
func (s *Service) Open(ctx context.Context, seed bool) error {
	s.mu.Lock()
	defer s.unlock()
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	b, err := s.store.Load(cctx)
	cancel()
	switch {
	case errors.Is(err, store.ErrAbsent):
		s.trips = model.TripList{}
		if seed {
			s.trips = DemoTrips(s.now())
			log.Printf("board: %s store empty, seeded %d demo trips", s.store.Name(), len(s.trips))
			_, _ = s.persistLocked(ctx)
		}
	case err != nil:
		return fmt.Errorf("load board: %w", err)
	default:
		trips, err := codec.Decode(b, codec.FormatJSON, s.now())
		if err != nil {
			return fmt.Errorf("load board: %w", err)
		}
		s.trips = trips
		log.Printf("board: loaded %d trips from %s", len(trips), s.store.Name())
	}
	metrics.Trips.Set(float64(len(s.trips)))
	return nil
}

// List returns every trip with its severities, in board order.
func (s *Service) List() []model.TripView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TripView, 0, len(s.trips))
	for _, t := range s.trips {
		out = append(out, view(t))
	}
	return out
}

func (s *Service) Get(id string) (model.TripView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.TripView{}, fmt.Errorf("%s: %w", id, ErrTripNotFound)
	}
	return view(s.trips[i]), nil
}

// Snapshot returns a copy of the trip list for export.
func (s *Service) Snapshot() model.TripList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(model.TripList{}, s.trips...)
}

func (s *Service) Create(ctx context.Context, in model.TripInput) (Mutation, error) {
	s.mu.Lock()
	defer s.unlock()
	trip := schedule.NormalizeTrip(model.Trip{
		ID:       uuid.New().String(),
		Client:   in.Client,
		Aircraft: in.Aircraft,
		Tags:     in.Tags,
		Notes:    in.Notes,
		Legs:     in.Legs,
	}, s.now())
	s.trips = append(s.trips, trip)
	return s.commitLocked(ctx, trip, EventTripUpdated), nil
}

func (s *Service) Patch(ctx context.Context, id string, p model.TripPatch) (Mutation, error) {
	return s.edit(ctx, id, func(t model.Trip) (model.Trip, error) {
		if p.Client != nil {
			t.Client = *p.Client
		}
		if p.Aircraft != nil {
			t.Aircraft = *p.Aircraft
		}
		if p.Tags != nil {
			t.Tags = *p.Tags
		}
		if p.Notes != nil {
			t.Notes = *p.Notes
		}
		return schedule.NormalizeTrip(t, s.now()), nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) (Mutation, error) {
	s.mu.Lock()
	defer s.unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Mutation{}, fmt.Errorf("%s: %w", id, ErrTripNotFound)
	}
	trips := make(model.TripList, 0, len(s.trips)-1)
	trips = append(trips, s.trips[:i]...)
	s.trips = append(trips, s.trips[i+1:]...)
	m := s.saveLocked(ctx)
	s.emit(Event{Type: EventTripDeleted, TripID: id})
	return m, nil
}

// InsertLeg inserts leg (a blank leg when nil) at position at; at < 0 appends.
func (s *Service) InsertLeg(ctx context.Context, id string, at int, leg *model.Leg) (Mutation, error) {
	return s.edit(ctx, id, func(t model.Trip) (model.Trip, error) {
		l := schedule.NewLeg()
		if leg != nil {
			l = *leg
		}
		if at < 0 {
			at = len(t.Legs)
		}
		return schedule.InsertLeg(t, at, l, s.now())
	})
}

func (s *Service) UpdateLeg(ctx context.Context, id string, at int, p model.LegPatch) (Mutation, error) {
	return s.edit(ctx, id, func(t model.Trip) (model.Trip, error) {
		return schedule.UpdateLeg(t, at, p, s.now())
	})
}

func (s *Service) RemoveLeg(ctx context.Context, id string, at int) (Mutation, error) {
	return s.edit(ctx, id, func(t model.Trip) (model.Trip, error) {
		return schedule.RemoveLeg(t, at, s.now())
	})
}

func (s *Service) SetStatus(ctx context.Context, id string, at int, key model.StatusKey, upd model.StatusUpdate) (Mutation, error) {
	if !upd.State.Known() {
		return Mutation{}, fmt.Errorf("%q: %w", upd.State, ErrInvalidState)
	}
	return s.edit(ctx, id, func(t model.Trip) (model.Trip, error) {
		return schedule.SetLegStatus(t, at, key, upd, s.now())
	})
}

// Replace swaps the whole trip list, as an import does. Trips must already
// be normalized (codec.Decode does that).
func (s *Service) Replace(ctx context.Context, trips model.TripList) Mutation {
	s.mu.Lock()
	defer s.unlock()
	s.trips = append(model.TripList{}, trips...)
	m := s.saveLocked(ctx)
	m.Count = len(s.trips)
	s.emit(Event{Type: EventBoardReplaced, Data: map[string]any{"trips": len(s.trips)}})
	return m
}

// Board renders days consecutive days starting at from.
func (s *Service) Board(from model.Date, days int) model.Board {
	s.mu.Lock()
	trips := append(model.TripList{}, s.trips...)
	s.mu.Unlock()
	b := schedule.BuildBoard(trips, schedule.Days(from, days), s.now())
	metrics.BoardRenders.Inc()
	metrics.BoardSegments.Set(float64(schedule.SegmentCount(b)))
	metrics.BoardMaxLanes.Set(float64(schedule.MaxLanes(b)))
	return b
}

// Today is the service clock's UTC date.
func (s *Service) Today() model.Date { return schedule.Today(s.now()) }

// Flush retries the save when the last one failed.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()
	if !s.dirty {
		return nil
	}
	_, err := s.persistLocked(ctx)
	return err
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{Trips: len(s.trips), Backend: s.store.Name(), Dirty: s.dirty, LastSaved: s.lastSaved}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Ping checks the store within the service timeout.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *Service) edit(ctx context.Context, id string, fn func(model.Trip) (model.Trip, error)) (Mutation, error) {
	s.mu.Lock()
	defer s.unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Mutation{}, fmt.Errorf("%s: %w", id, ErrTripNotFound)
	}
	trip, err := fn(s.trips[i])
	if err != nil {
		return Mutation{}, err
	}
	s.trips[i] = trip
	return s.commitLocked(ctx, trip, EventTripUpdated), nil
}

func (s *Service) commitLocked(ctx context.Context, trip model.Trip, evt string) Mutation {
	m := s.saveLocked(ctx)
	v := view(trip)
	m.Trip = &v
	s.emit(Event{Type: evt, TripID: trip.ID, Data: map[string]any{"severity": v.Severity.String(), "startDate": trip.StartDate, "endDate": trip.EndDate}})
	return m
}

func (s *Service) saveLocked(ctx context.Context) Mutation {
	metrics.Trips.Set(float64(len(s.trips)))
	ok, err := s.persistLocked(ctx)
	m := Mutation{Persisted: ok}
	if err != nil {
		m.PersistError = err.Error()
	}
	return m
}

// persistLocked mirrors the list to the store. The caller's cancellation is
// dropped so a disconnecting client does not abort the save.
func (s *Service) persistLocked(ctx context.Context) (bool, error) {
	now := s.now()
	doc, err := codec.Encode(s.trips, codec.FormatJSON, now)
	if err == nil {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		start := time.Now()
		err = s.store.Save(cctx, doc)
		cancel()
		metrics.PersistLatency.WithLabelValues(s.store.Name()).Observe(float64(time.Since(start).Milliseconds()))
	}
	if err != nil {
		s.dirty, s.lastErr = true, err
		metrics.PersistResults.WithLabelValues(s.store.Name(), "error").Inc()
		log.Printf("board: save to %s failed: %v", s.store.Name(), err)
		s.emit(Event{Type: EventPersistFailed, Data: map[string]any{"backend": s.store.Name(), "error": err.Error()}})
		return false, err
	}
	s.dirty, s.lastErr, s.lastSaved = false, nil, now
	metrics.PersistResults.WithLabelValues(s.store.Name(), "ok").Inc()
	return true, nil
}

func (s *Service) indexLocked(id string) int {
	for i := range s.trips {
		if s.trips[i].ID == id {
			return i
		}
	}
	return -1
}

// emit queues evt. The caller holds mu; unlock delivers the queue so a slow
// sink never blocks other board calls.
func (s *Service) emit(evt Event) {
	if s.notify != nil {
		s.pending = append(s.pending, evt)
	}
}

func (s *Service) unlock() {
	evts := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, e := range evts {
		s.notify(e)
	}
}

func view(t model.Trip) model.TripView {
	return model.TripView{Trip: t, Severity: schedule.TripSeverity(t), LegSeverity: schedule.LegSeverities(t)}
}
