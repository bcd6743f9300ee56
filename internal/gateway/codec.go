package gateway

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

// WriterID identifies this process in stored documents.
var WriterID = uuid.NewString()

// Document is the JSON shape a snapshot is stored and transferred in.
type Document struct {
	Version         int                     `json:"version"`
	TotalPoints     int                     `json:"totalPoints"`
	LastRolloverDay string                  `json:"lastRolloverDay"`
	Tasks           map[string]TaskDocument `json:"tasks"`
	PointsHistory   []PointsDocument        `json:"pointsHistory"`
	UpdatedAt       time.Time               `json:"updatedAt,omitzero"`
	Writer          string                  `json:"writer,omitempty"`
}

// TaskDocument is the stored form of one task's state.
type TaskDocument struct {
	CompletionTier string            `json:"completionTier"`
	History        []HistoryDocument `json:"history"`
}

type HistoryDocument struct {
	Date string `json:"date"`
	Tier string `json:"tier"`
}

type PointsDocument struct {
	Day         string `json:"day"`
	TotalPoints int    `json:"totalPoints"`
	Reason      string `json:"reason"`
}

// ToDocument converts s to its stored form.
func ToDocument(s *engine.Snapshot, updatedAt time.Time) Document {
	doc := Document{
		Version:         s.Version,
		TotalPoints:     s.TotalPoints,
		LastRolloverDay: s.LastRolloverDay.String(),
		Tasks:           make(map[string]TaskDocument, len(s.Tasks)),
		PointsHistory:   make([]PointsDocument, 0, len(s.PointsHistory)),
		UpdatedAt:       updatedAt.UTC(),
		Writer:          WriterID,
	}
	for id, ts := range s.Tasks {
		td := TaskDocument{CompletionTier: string(ts.Tier), History: make([]HistoryDocument, 0, len(ts.History))}
		for _, h := range ts.History {
			td.History = append(td.History, HistoryDocument{Date: h.Day.String(), Tier: string(h.Tier)})
		}
		doc.Tasks[id] = td
	}
	for _, r := range s.PointsHistory {
		doc.PointsHistory = append(doc.PointsHistory, PointsDocument{Day: r.Day.String(), TotalPoints: r.TotalPoints, Reason: r.Reason})
	}
	return doc
}

// Snapshot validates doc and converts it back. Failures wrap ErrCorruptSnapshot.
func (doc Document) Snapshot() (*engine.Snapshot, error) {
	if doc.Version < 1 || doc.Version > engine.SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, doc.Version)
	}
	last, err := engine.ParseDay(doc.LastRolloverDay)
	if err != nil {
		return nil, fmt.Errorf("%w: lastRolloverDay: %v", ErrCorruptSnapshot, err)
	}
	s := &engine.Snapshot{
		Version:         doc.Version,
		TotalPoints:     doc.TotalPoints,
		LastRolloverDay: last,
		Tasks:           make(map[string]engine.TaskState, len(doc.Tasks)),
	}
	for id, td := range doc.Tasks {
		ts, err := td.state()
		if err != nil {
			return nil, fmt.Errorf("%w: task %q: %v", ErrCorruptSnapshot, id, err)
		}
		s.Tasks[id] = ts
	}
	for i, pd := range doc.PointsHistory {
		day, err := engine.ParseDay(pd.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: pointsHistory[%d]: %v", ErrCorruptSnapshot, i, err)
		}
		s.PointsHistory = append(s.PointsHistory, engine.PointsRecord{Day: day, TotalPoints: pd.TotalPoints, Reason: pd.Reason})
	}
	return s, nil
}

func (td TaskDocument) state() (engine.TaskState, error) {
	tier := engine.Tier(td.CompletionTier)
	if !tier.IsValid() {
		return engine.TaskState{}, fmt.Errorf("invalid tier %q", td.CompletionTier)
	}
	ts := engine.TaskState{Tier: tier}
	for _, h := range td.History {
		day, err := engine.ParseDay(h.Date)
		if err != nil {
			return engine.TaskState{}, err
		}
		ht := engine.Tier(h.Tier)
		if !ht.IsValid() {
			return engine.TaskState{}, fmt.Errorf("invalid history tier %q", h.Tier)
		}
		ts.History = append(ts.History, engine.HistoryEntry{Day: day, Tier: ht})
	}
	sort.SliceStable(ts.History, func(i, j int) bool { return ts.History[i].Day.Before(ts.History[j].Day) })
	for i := 1; i < len(ts.History); i++ {
		if ts.History[i].Day == ts.History[i-1].Day {
			return engine.TaskState{}, fmt.Errorf("duplicate history day %s", ts.History[i].Day)
		}
	}
	return ts, nil
}

// Encode marshals s with its metadata.
func Encode(s *engine.Snapshot, updatedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(ToDocument(s, updatedAt))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a stored document.
func Decode(data []byte) (*engine.Snapshot, Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Document{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	s, err := doc.Snapshot()
	if err != nil {
		return nil, Document{}, err
	}
	return s, doc, nil
}
