package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type RecurrenceKind string

const (
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
)

func (k RecurrenceKind) IsValid() bool {
	switch k {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

func ParseRecurrenceKind(input string) (RecurrenceKind, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	k := RecurrenceKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid recurrence: %q", input)
	}
	return k, nil
}

// Recurrence decides on which calendar days a task is due.
// Days holds weekdays (0 = Sunday) for weekly tasks and days of the month (1..31)
// for monthly tasks; it is ignored for daily tasks.
type Recurrence struct {
	Kind RecurrenceKind
	Days []int
}

func Daily() Recurrence { return Recurrence{Kind: RecurrenceDaily} }

func Weekly(weekdays ...int) Recurrence {
	return Recurrence{Kind: RecurrenceWeekly, Days: normalizeDays(weekdays)}
}

func Monthly(days ...int) Recurrence {
	return Recurrence{Kind: RecurrenceMonthly, Days: normalizeDays(days)}
}

func normalizeDays(days []int) []int {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

// Validate reports whether the day set fits the recurrence kind.
func (r Recurrence) Validate() error {
	switch r.Kind {
	case RecurrenceDaily:
		return nil
	case RecurrenceWeekly:
		return validateDays(r.Days, 0, 6, "weekday")
	case RecurrenceMonthly:
		return validateDays(r.Days, 1, 31, "day of month")
	default:
		return fmt.Errorf("invalid recurrence: %q", r.Kind)
	}
}

func validateDays(days []int, lo, hi int, what string) error {
	if len(days) == 0 {
		return fmt.Errorf("%s recurrence needs at least one day", what)
	}
	for _, d := range days {
		if d < lo || d > hi {
			return fmt.Errorf("%s %d out of range %d..%d", what, d, lo, hi)
		}
	}
	return nil
}

func (r Recurrence) String() string {
	if r.Kind == RecurrenceDaily || len(r.Days) == 0 {
		return string(r.Kind)
	}
	parts := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		if r.Kind == RecurrenceWeekly && d >= 0 && d <= 6 {
			parts = append(parts, weekdayShort[d])
			continue
		}
		parts = append(parts, fmt.Sprintf("%d", d))
	}
	return fmt.Sprintf("%s(%s)", r.Kind, strings.Join(parts, ","))
}

var weekdayShort = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// recurrenceDoc is the configuration shape. DayOfWeek is the single-day form used by
// older catalogs and is folded into Days.
type recurrenceDoc struct {
	Type      string `json:"type" yaml:"type"`
	Days      []int  `json:"days,omitempty" yaml:"days,omitempty"`
	DayOfWeek *int   `json:"dayOfWeek,omitempty" yaml:"dayOfWeek,omitempty"`
}

func (d recurrenceDoc) recurrence() (Recurrence, error) {
	kind, err := ParseRecurrenceKind(d.Type)
	if err != nil {
		return Recurrence{}, err
	}
	days := d.Days
	if d.DayOfWeek != nil {
		days = append(slices.Clone(days), *d.DayOfWeek)
	}
	if kind == RecurrenceDaily {
		days = nil
	}
	return Recurrence{Kind: kind, Days: normalizeDays(days)}, nil
}

func (r Recurrence) doc() recurrenceDoc {
	return recurrenceDoc{Type: string(r.Kind), Days: r.Days}
}

func (r Recurrence) MarshalJSON() ([]byte, error) { return json.Marshal(r.doc()) }

func (r *Recurrence) UnmarshalJSON(data []byte) error {
	var d recurrenceDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("recurrence: %w", err)
	}
	out, err := d.recurrence()
	if err != nil {
		return err
	}
	*r = out
	return nil
}

func (r Recurrence) MarshalYAML() (any, error) { return r.doc(), nil }

func (r *Recurrence) UnmarshalYAML(node *yaml.Node) error {
	var d recurrenceDoc
	if err := node.Decode(&d); err != nil {
		return fmt.Errorf("recurrence: %w", err)
	}
	out, err := d.recurrence()
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// IsDue reports whether task is due on day. Daily tasks are always due.
func IsDue(task *Task, day Day) bool {
	r := task.Recurrence
	switch r.Kind {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		return slices.Contains(r.Days, int(day.Weekday()))
	case RecurrenceMonthly:
		return slices.Contains(r.Days, day.Day)
	default:
		return false
	}
}
