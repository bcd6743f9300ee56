// Package catalog loads the task catalog: the configured tasks, their tier point
// values and recurrence rules, and the sections used to group them.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

//go:embed default_tasks.yaml
var defaultTasks []byte

// ErrInvalidCatalog wraps every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Default returns the built-in catalog.
func Default() (*engine.Catalog, error) {
	return Parse(defaultTasks)
}

// Load reads a catalog file. JSON catalogs are accepted as well since JSON is YAML.
// An empty path returns the built-in catalog.
func Load(path string) (*engine.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*engine.Catalog, error) {
	var cat engine.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := Validate(&cat); err != nil {
		return nil, err
	}
	cat.Reindex()
	return &cat, nil
}

// Validate checks ids, point values and recurrence rules. Sections referenced by tasks but not
// declared are appended after the declared ones, in first-use order.
func Validate(cat *engine.Catalog) error {
	if len(cat.Tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(cat.Tasks))
	for i := range cat.Tasks {
		t := &cat.Tasks[i]
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return fmt.Errorf("%w: task #%d has no id", ErrInvalidCatalog, i+1)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate task id %q", ErrInvalidCatalog, t.ID)
		}
		seen[t.ID] = true
		if t.Name == "" {
			t.Name = t.ID
		}
		if t.Points == (engine.PointValues{}) {
			return fmt.Errorf("%w: task %q has no point values", ErrInvalidCatalog, t.ID)
		}
		if err := t.Recurrence.Validate(); err != nil {
			return fmt.Errorf("%w: task %q: %v", ErrInvalidCatalog, t.ID, err)
		}
	}

	maxOrder := 0
	known := map[string]bool{}
	for _, s := range cat.Sections {
		known[s.Name] = true
		maxOrder = max(maxOrder, s.Order)
	}
	for _, t := range cat.Tasks {
		if known[t.Section] {
			continue
		}
		maxOrder++
		cat.Sections = append(cat.Sections, engine.Section{Name: t.Section, Order: maxOrder})
		known[t.Section] = true
	}
	slices.SortStableFunc(cat.Sections, func(a, b engine.Section) int { return a.Order - b.Order })
	return nil
}

// Group is the tasks of one section.
type Group struct {
	Section engine.Section
	Tasks   []*engine.Task
}

// BySection groups the tasks for which keep returns true by section, in section
// order. Empty sections are left out. A nil keep keeps every task.
func BySection(cat *engine.Catalog, keep func(*engine.Task) bool) []Group {
	var out []Group
	for _, s := range cat.Sections {
		g := Group{Section: s}
		for i := range cat.Tasks {
			t := &cat.Tasks[i]
			if t.Section != s.Name {
				continue
			}
			if keep != nil && !keep(t) {
				continue
			}
			g.Tasks = append(g.Tasks, t)
		}
		if len(g.Tasks) > 0 {
			out = append(out, g)
		}
	}
	return out
}

var checklistRe = regexp.MustCompile(`^\s*[-*]\s*\[( |x|X)\]\s*(.+?)\s*$`)

// ChecklistItem is one "- [ ] item" line of a task description.
type ChecklistItem struct {
	Text    string
	Checked bool
}

// Checklist extracts the sub-checklist of a description. Other lines are ignored.
func Checklist(description string) []ChecklistItem {
	var out []ChecklistItem
	for _, line := range strings.Split(description, "\n") {
		m := checklistRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, ChecklistItem{Text: m[2], Checked: m[1] != " "})
	}
	return out
}
