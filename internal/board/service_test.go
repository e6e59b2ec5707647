package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripboard/internal/codec"
	"tripboard/internal/model"
	"tripboard/internal/store"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

// flakyStore wraps a memory store and fails saves while failing is set.
type flakyStore struct {
	*store.Memory
	mu      sync.Mutex
	failing bool
}

func (f *flakyStore) setFailing(v bool) { f.mu.Lock(); f.failing = v; f.mu.Unlock() }

func (f *flakyStore) Save(ctx context.Context, doc []byte) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errors.New("store unavailable")
	}
	return f.Memory.Save(ctx, doc)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) notify(e Event) { r.mu.Lock(); r.events = append(r.events, e); r.mu.Unlock() }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newService(t *testing.T, st store.Store) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(st, Options{Now: func() time.Time { return now }, Notify: rec.notify})
	require.NoError(t, s.Open(context.Background(), false))
	return s, rec
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestOpenSeedsWhenAbsent(t *testing.T) {
	mem := store.NewMemory()
	s := New(mem, Options{Now: func() time.Time { return now }})
	require.NoError(t, s.Open(context.Background(), true))
	assert.Len(t, s.List(), 4)
	assert.Equal(t, 1, mem.Saves())

	again := New(mem, Options{Now: func() time.Time { return now }})
	require.NoError(t, again.Open(context.Background(), true))
	assert.Len(t, again.List(), 4, "saved document is loaded, not reseeded")
	assert.Equal(t, 1, mem.Saves())
}

func TestOpenLoadsLegacyDocument(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Save(context.Background(), []byte(`[{"id":"old","tail":"G-OLD","legs":[{"day":"2026-02-26","dep":"2300","arr":"0130"}]}]`)))
	s, _ := newService(t, mem)
	trip, err := s.Get("old")
	require.NoError(t, err)
	assert.Equal(t, "G-OLD", trip.Aircraft)
	assert.Equal(t, model.Date("2026-02-27"), trip.EndDate)
	assert.Equal(t, model.SeverityRed, trip.Severity)
}

func TestCreateEditDelete(t *testing.T) {
	mem := store.NewMemory()
	s, rec := newService(t, mem)
	ctx := context.Background()

	m, err := s.Create(ctx, model.TripInput{Client: "Acme", Aircraft: "G-ABCD"})
	require.NoError(t, err)
	require.NotNil(t, m.Trip)
	assert.True(t, m.Persisted)
	id := m.Trip.ID
	assert.Equal(t, model.Date("2026-03-10"), m.Trip.StartDate, "no legs falls back to today")
	assert.Equal(t, model.SeverityGrey, m.Trip.Severity)

	m, err = s.InsertLeg(ctx, id, -1, nil)
	require.NoError(t, err)
	require.Len(t, m.Trip.Legs, 1)
	assert.Equal(t, model.SeverityRed, m.Trip.Severity)

	m, err = s.UpdateLeg(ctx, id, 0, model.LegPatch{StartUTC: ts("2026-03-12T23:00:00Z"), EndUTC: ts("2026-03-13T01:30:00Z")})
	require.NoError(t, err)
	assert.Equal(t, model.Date("2026-03-12"), m.Trip.StartDate)
	assert.Equal(t, model.Date("2026-03-13"), m.Trip.EndDate)

	for _, k := range model.StatusKeys {
		m, err = s.SetStatus(ctx, id, 0, k, model.StatusUpdate{State: model.StateComplete})
		require.NoError(t, err)
	}
	assert.Equal(t, model.SeverityGreen, m.Trip.Severity)
	assert.Equal(t, []model.Severity{model.SeverityGreen}, m.Trip.LegSeverity)

	client := "Acme Ltd"
	m, err = s.Patch(ctx, id, model.TripPatch{Client: &client})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", m.Trip.Client)
	assert.Equal(t, model.Date("2026-03-12"), m.Trip.StartDate)

	m, err = s.RemoveLeg(ctx, id, 0)
	require.NoError(t, err)
	assert.Empty(t, m.Trip.Legs)
	assert.Equal(t, model.Date("2026-03-12"), m.Trip.StartDate, "range kept when no legs qualify")

	m, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, m.Trip)
	_, err = s.Get(id)
	assert.True(t, errors.Is(err, ErrTripNotFound))

	b, err := mem.Load(ctx)
	require.NoError(t, err)
	trips, err := codec.Decode(b, codec.FormatJSON, now)
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.Contains(t, rec.types(), EventTripDeleted)
}

func TestEditErrors(t *testing.T) {
	s, _ := newService(t, store.NewMemory())
	ctx := context.Background()
	m, err := s.Create(ctx, model.TripInput{})
	require.NoError(t, err)
	id := m.Trip.ID

	_, err = s.Patch(ctx, "nope", model.TripPatch{})
	assert.True(t, errors.Is(err, ErrTripNotFound))
	_, err = s.RemoveLeg(ctx, id, 0)
	assert.True(t, errors.Is(err, ErrLegIndex))
	_, err = s.InsertLeg(ctx, id, 5, nil)
	assert.True(t, errors.Is(err, ErrLegIndex))

	_, err = s.InsertLeg(ctx, id, 0, nil)
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, id, 0, "coffee", model.StatusUpdate{State: model.StateComplete})
	assert.True(t, errors.Is(err, ErrInvalidStatusKey))
	_, err = s.SetStatus(ctx, id, 0, model.StatusCrew, model.StatusUpdate{State: "done"})
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestPersistFailureDoesNotRollBack(t *testing.T) {
	fs := &flakyStore{Memory: store.NewMemory()}
	s, rec := newService(t, fs)
	ctx := context.Background()

	fs.setFailing(true)
	m, err := s.Create(ctx, model.TripInput{Client: "Kept"})
	require.NoError(t, err)
	assert.False(t, m.Persisted)
	assert.Equal(t, "store unavailable", m.PersistError)
	assert.Len(t, s.List(), 1, "in-memory state kept")
	assert.True(t, s.State().Dirty)
	assert.Contains(t, rec.types(), EventPersistFailed)

	require.Error(t, s.Flush(ctx))
	fs.setFailing(false)
	require.NoError(t, s.Flush(ctx))
	st := s.State()
	assert.False(t, st.Dirty)
	assert.Empty(t, st.LastError)
	assert.Equal(t, now, st.LastSaved)

	b, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Kept")
}

func TestReplaceAndBoard(t *testing.T) {
	s, rec := newService(t, store.NewMemory())
	trips := DemoTrips(now)
	m := s.Replace(context.Background(), trips)
	assert.True(t, m.Persisted)
	assert.Equal(t, 4, m.Count)
	assert.Contains(t, rec.types(), EventBoardReplaced)

	b := s.Board(s.Today(), 7)
	require.Len(t, b.Rows, 4)
	require.Len(t, b.Days, 7)
	// the two N650CT trips overlap on day 2 and share its lanes
	assert.Equal(t, 2, b.Rows[1].Cells[2].Lanes)
	assert.Equal(t, 1, b.Rows[2].Cells[2].Segments[0].Lane)
	// overnight leg spills into the next day
	assert.Equal(t, 1380, b.Rows[0].Cells[1].Segments[0].StartMinute)
	assert.Equal(t, 90, b.Rows[0].Cells[2].Segments[0].EndMinute)
}

func TestFlusherRejectsBadSchedule(t *testing.T) {
	s, _ := newService(t, store.NewMemory())
	_, err := s.StartFlusher("every now and then")
	assert.Error(t, err)
	c, err := s.StartFlusher("@every 1h")
	require.NoError(t, err)
	c.Stop()
}

func TestEventsDeliveredOutsideLock(t *testing.T) {
	var s *Service
	seen := make(chan State, 4)
	s = New(&flakyStore{Memory: store.NewMemory(), failing: true}, Options{
		Now: func() time.Time { return now },
		Notify: func(e Event) {
			// a sink that reads the board must not deadlock
			seen <- s.State()
		},
	})
	require.NoError(t, s.Open(context.Background(), false))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Create(context.Background(), model.TripInput{Client: "Lock"})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Create blocked on its own event sink")
	}
	require.Len(t, seen, 2, "persist_failed then trip.updated")
	st := <-seen
	assert.Equal(t, 1, st.Trips)
	assert.True(t, st.Dirty)
}
