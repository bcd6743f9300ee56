package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier is the completion level chosen for a task on a given day.
type Tier string

const (
	TierUnselected Tier = "unselected"
	TierNone       Tier = "none"
	TierMinimum    Tier = "minimum"
	TierFull       Tier = "full"
	TierBonus      Tier = "bonus"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierUnselected, TierNone, TierMinimum, TierFull, TierBonus}

func (t Tier) IsValid() bool {
	switch t {
	case TierUnselected, TierNone, TierMinimum, TierFull, TierBonus:
		return true
	default:
		return false
	}
}

// OptionalPoints is the point value of a tier a task may or may not offer.
// The zero value is "not offered", which is distinct from Offered(0).
type OptionalPoints struct {
	Offered bool
	Points  int
}

// NotOffered marks a tier as unavailable for a task.
var NotOffered = OptionalPoints{}

func Offered(points int) OptionalPoints {
	return OptionalPoints{Offered: true, Points: points}
}

// Or returns the points if offered, else fallback.
func (o OptionalPoints) Or(fallback int) int {
	if o.Offered {
		return o.Points
	}
	return fallback
}

func (o OptionalPoints) String() string {
	if !o.Offered {
		return "-"
	}
	return fmt.Sprintf("%d", o.Points)
}

func (o OptionalPoints) MarshalJSON() ([]byte, error) {
	if !o.Offered {
		return []byte("null"), nil
	}
	return json.Marshal(o.Points)
}

func (o *OptionalPoints) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*o = NotOffered
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("optional points: %w", err)
	}
	*o = Offered(n)
	return nil
}

func (o OptionalPoints) MarshalYAML() (any, error) {
	if !o.Offered {
		return nil, nil
	}
	return o.Points, nil
}

func (o *OptionalPoints) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*o = NotOffered
		return nil
	}
	var n int
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("optional points: %w", err)
	}
	*o = Offered(n)
	return nil
}

// PointValues holds the signed delta of each tier. None and Full are always offered.
type PointValues struct {
	None    int            `json:"none" yaml:"none"`
	Minimum OptionalPoints `json:"minimum" yaml:"minimum"`
	Full    int            `json:"full" yaml:"full"`
	Bonus   OptionalPoints `json:"bonus" yaml:"bonus"`
}

// Task is a catalog entry. It is configuration and read-only to the engine.
type Task struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Section     string      `json:"section" yaml:"section"`
	Points      PointValues `json:"pointValues" yaml:"pointValues"`
	Recurrence  Recurrence  `json:"recurrence" yaml:"recurrence"`
}

type Section struct {
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

// Catalog is the configured set of tasks and the sections used to group them.
type Catalog struct {
	Sections []Section `json:"sections" yaml:"sections"`
	Tasks    []Task    `json:"tasks" yaml:"tasks"`

	index map[string]int
}

func NewCatalog(sections []Section, tasks []Task) *Catalog {
	c := &Catalog{Sections: sections, Tasks: tasks}
	c.Reindex()
	return c
}

// Reindex rebuilds the id lookup after Tasks was modified in place.
func (c *Catalog) Reindex() {
	c.index = make(map[string]int, len(c.Tasks))
	for i := range c.Tasks {
		c.index[c.Tasks[i].ID] = i
	}
}

// Task returns the task with the given id, or nil if the catalog has none.
func (c *Catalog) Task(id string) *Task {
	if c == nil {
		return nil
	}
	if c.index == nil {
		c.Reindex()
	}
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	return &c.Tasks[i]
}
