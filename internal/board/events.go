package board

// Event types published after mutations.
const (
	EventTripUpdated   = "trip.updated"
	EventTripDeleted   = "trip.deleted"
	EventBoardReplaced = "board.replaced"
	EventPersistFailed = "board.persist_failed"
)

// Topic is the broker topic board events are published on.
const Topic = "board"

type Event struct {
	Type   string         `json:"type"`
	TripID string         `json:"tripId,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}
