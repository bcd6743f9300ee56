package engine

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCatalogDecodesOptionalTiers(t *testing.T) {
	src := `
sections:
  - name: Health
    order: 1
tasks:
  - id: water
    name: Drink water
    section: Health
    pointValues: {none: -10, minimum: null, full: 20}
    recurrence: {type: daily}
  - id: gym
    section: Health
    pointValues: {none: -20, minimum: 0, full: 30, bonus: 50}
    recurrence: {type: weekly, days: [5, 1, 1]}
  - id: legacy
    section: Health
    pointValues: {none: 0, full: 5}
    recurrence: {type: weekly, dayOfWeek: 3}
`
	var cat Catalog
	if err := yaml.Unmarshal([]byte(src), &cat); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	cat.Reindex()

	water := cat.Task("water")
	if water.Points.Minimum.Offered || water.Points.Bonus.Offered {
		t.Fatalf("water offers optional tiers: %+v", water.Points)
	}
	gym := cat.Task("gym")
	if !gym.Points.Minimum.Offered || gym.Points.Minimum.Points != 0 || gym.Points.Bonus.Points != 50 {
		t.Fatalf("gym points=%+v", gym.Points)
	}
	if got := gym.Recurrence.String(); got != "weekly(Mon,Fri)" {
		t.Fatalf("gym recurrence=%s", got)
	}
	if days := cat.Task("legacy").Recurrence.Days; len(days) != 1 || days[0] != 3 {
		t.Fatalf("legacy days=%v", days)
	}
}

func TestPointValuesJSON(t *testing.T) {
	in := PointValues{None: -10, Full: 20, Bonus: Offered(0)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"none":-10,"minimum":null,"full":20,"bonus":0}` {
		t.Fatalf("json=%s", data)
	}
	var out PointValues
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip=%+v, want %+v", out, in)
	}
}

func TestRecurrenceValidate(t *testing.T) {
	if err := Weekly(7).Validate(); err == nil {
		t.Fatalf("weekday 7 must be rejected")
	}
	if err := Monthly().Validate(); err == nil {
		t.Fatalf("empty monthly must be rejected")
	}
	if err := Monthly(31).Validate(); err != nil {
		t.Fatalf("Monthly(31): %v", err)
	}
}
