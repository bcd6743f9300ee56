package syncserver

import (
	"time"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
	"github.com/Giantpizzahead/life-coach-x/internal/tracker"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type SelectionRequest struct {
	TaskID string `json:"taskId" binding:"required"`
	Tier   string `json:"tier" binding:"required"`
}

type AdjustmentRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type RolloverResponse struct {
	DaysClosed int              `json:"daysClosed"`
	Snapshot   gateway.Document `json:"snapshot"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Profile   string    `json:"profile"`
	Backend   string    `json:"backend"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

type TaskStatus struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Tier    engine.Tier   `json:"tier"`
	Points  int           `json:"points"`
	Stale   bool          `json:"stale,omitempty"`
	Offered []engine.Tier `json:"offered"`
}

type SectionStatus struct {
	Section string       `json:"section"`
	Tasks   []TaskStatus `json:"tasks"`
}

type StatusResponse struct {
	Snapshot     gateway.Document `json:"snapshot"`
	OpenDay      engine.Day       `json:"openDay"`
	Today        engine.Day       `json:"today"`
	Preview      int              `json:"preview"`
	RolloverDue  bool             `json:"rolloverDue"`
	NextRollover time.Time        `json:"nextRollover"`
	Sections     []SectionStatus  `json:"sections"`
}

func newStatusResponse(st *tracker.Status) StatusResponse {
	out := StatusResponse{
		Snapshot:     gateway.ToDocument(st.Snapshot, time.Now()),
		OpenDay:      st.OpenDay,
		Today:        st.Today,
		Preview:      st.Preview,
		RolloverDue:  st.RolloverDue,
		NextRollover: st.NextRollover,
	}
	for _, g := range st.Groups {
		sec := SectionStatus{Section: g.Section.Name}
		for _, l := range g.Lines {
			sec.Tasks = append(sec.Tasks, TaskStatus{
				ID:      l.Task.ID,
				Name:    l.Task.Name,
				Tier:    l.Stored,
				Points:  l.Points,
				Stale:   l.Stale,
				Offered: engine.OfferedTiers(l.Task),
			})
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}

// Stream message types.
const (
	MessageSnapshot = "snapshot"
	MessageCleared  = "cleared"
)

// StreamMessage is pushed to websocket clients.
type StreamMessage struct {
	Type      string            `json:"type"`
	Snapshot  *gateway.Document `json:"snapshot,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func snapshotMessage(s *engine.Snapshot) StreamMessage {
	now := time.Now().UTC()
	if s == nil {
		return StreamMessage{Type: MessageCleared, Timestamp: now}
	}
	doc := gateway.ToDocument(s, now)
	return StreamMessage{Type: MessageSnapshot, Snapshot: &doc, Timestamp: now}
}
