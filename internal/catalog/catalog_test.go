package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	water := cat.Task("water")
	require.NotNil(t, water)
	assert.Equal(t, -10, water.Points.None)
	assert.True(t, water.Points.Minimum.Offered)
	assert.False(t, water.Points.Bonus.Offered)
	assert.Len(t, Checklist(water.Description), 3)

	assert.Equal(t, engine.RecurrenceMonthly, cat.Task("bills").Recurrence.Kind)
}

func TestLoadJSONCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "sections": [{"name": "Daily", "order": 1}],
  "tasks": [
    {"id": "meditate", "name": "Meditate", "section": "Daily",
     "pointValues": {"none": -5, "minimum": null, "full": 10, "bonus": null},
     "recurrence": {"type": "daily"}},
    {"id": "plants", "name": "Water plants", "section": "Chores",
     "pointValues": {"none": -5, "full": 5},
     "recurrence": {"type": "weekly", "dayOfWeek": 6}}
  ]
}`), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cat.Tasks, 2)
	require.Len(t, cat.Sections, 2)
	assert.Equal(t, "Chores", cat.Sections[1].Name, "undeclared section appended")
	assert.Equal(t, []int{6}, cat.Task("plants").Recurrence.Days)
}

func TestServedCatalogParsesBack(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	data, err := json.Marshal(cat)
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)

	require.Len(t, back.Tasks, len(cat.Tasks))
	for i := range cat.Tasks {
		assert.Equal(t, cat.Tasks[i].Points, back.Tasks[i].Points, cat.Tasks[i].ID)
		assert.Equal(t, cat.Tasks[i].Recurrence, back.Tasks[i].Recurrence, cat.Tasks[i].ID)
	}
	assert.Equal(t, 10, engine.PointsFor(back.Task("wake-up"), engine.TierFull))
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, cat.Task("reading"))
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
tasks:
  - {id: a, section: S, pointValues: {none: 0, full: 1}, recurrence: {type: daily}}
  - {id: a, section: S, pointValues: {none: 0, full: 1}, recurrence: {type: daily}}`,
		"missing id": `
tasks:
  - {section: S, pointValues: {none: 0, full: 1}, recurrence: {type: daily}}`,
		"bad weekday": `
tasks:
  - {id: a, section: S, pointValues: {none: 0, full: 1}, recurrence: {type: weekly, days: [9]}}`,
		"empty monthly": `
tasks:
  - {id: a, section: S, pointValues: {none: 0, full: 1}, recurrence: {type: monthly}}`,
		"no tasks": `sections: []`,
		"no point values": `
tasks:
  - {id: a, section: S, recurrence: {type: daily}}`,
		"unknown key": `
tasks:
  - {id: a, section: S, points: {none: -5, full: 5}, recurrence: {type: daily}}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			require.Error(t, err)
		})
	}
}

func TestUnknownRecurrenceTypeFailsDecode(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  - {id: a, section: S, pointValues: {none: 0, full: 1}, recurrence: {type: yearly}}`))
	require.Error(t, err)
}

func TestBySection(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	groups := BySection(cat, func(task *engine.Task) bool {
		return task.Recurrence.Kind == engine.RecurrenceDaily
	})
	require.NotEmpty(t, groups)
	assert.Equal(t, "Morning", groups[0].Section.Name)
	for _, g := range groups {
		for _, task := range g.Tasks {
			assert.Equal(t, engine.RecurrenceDaily, task.Recurrence.Kind)
		}
	}
}

func TestChecklist(t *testing.T) {
	items := Checklist("Intro line\n- [ ] one\n* [x] two\nnot an item")
	require.Len(t, items, 2)
	assert.Equal(t, ChecklistItem{Text: "one"}, items[0])
	assert.Equal(t, ChecklistItem{Text: "two", Checked: true}, items[1])
}
