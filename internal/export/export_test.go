package export

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type snapshot struct {
	Income   float64            `json:"income"`
	Expenses map[string]float64 `json:"expenses"`
	Callback func()             `json:"callback"`
	Rate     float64            `json:"rate"`
	Note     string             `json:"note,omitempty"`
	Hidden   string             `json:"-"`
	At       time.Time          `json:"at"`
}

func TestWriteTimestampedPrettyJSON(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 17, 9, 5, 3, 0, time.UTC)
	data := snapshot{
		Income:   10000,
		Expenses: map[string]float64{"Food": 2500},
		Callback: func() {},
		Rate:     math.Inf(1),
		Hidden:   "secret",
		At:       now,
	}

	path, err := Write(dir, data, now)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "budget_export_20261017_090503.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(body), "\n  \"income\": 10000") {
		t.Errorf("not two-space indented:\n%s", body)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if s, ok := got["callback"].(string); !ok || s == "" {
		t.Errorf("callback = %#v, want string", got["callback"])
	}
	if got["rate"] != "+Inf" {
		t.Errorf("rate = %#v, want \"+Inf\"", got["rate"])
	}
	if _, ok := got["note"]; ok {
		t.Error("omitempty field written")
	}
	if _, ok := got["Hidden"]; ok {
		t.Error("json:\"-\" field written")
	}
	if got["at"] != "2026-10-17T09:05:03Z" {
		t.Errorf("at = %#v", got["at"])
	}
}

func TestSanitizeNested(t *testing.T) {
	ch := make(chan int)
	data := map[string]any{
		"list":    []any{1, complex(1, 2), ch},
		"nil":     nil,
		"nan":     math.NaN(),
		"numbers": map[int]string{1: "one"},
	}
	if _, err := json.Marshal(Sanitize(data)); err != nil {
		t.Fatalf("sanitized value still fails to marshal: %v", err)
	}
	out := Sanitize(data).(map[string]any)
	if out["nan"] != "NaN" {
		t.Errorf("nan = %#v", out["nan"])
	}
	if list := out["list"].([]any); list[1] != "(1+2i)" {
		t.Errorf("complex = %#v", list[1])
	}
}

type period struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

type owner struct {
	Name string `json:"name"`
}

type monthlySnapshot struct {
	period
	*owner
	Income float64 `json:"income"`
	Year   string  `json:"year"`
	Tagged period  `json:"tagged"`
}

func TestSanitizeFlattensEmbeddedStructs(t *testing.T) {
	data := monthlySnapshot{
		period: period{Month: "Oct", Year: 2026},
		Income: 10000,
		Year:   "FY27",
		Tagged: period{Month: "Sep"},
	}
	got := Sanitize(data).(map[string]any)

	if got["month"] != "Oct" {
		t.Errorf("month = %#v, want promoted \"Oct\"", got["month"])
	}
	if got["year"] != "FY27" {
		t.Errorf("year = %#v, want outer field to win", got["year"])
	}
	if _, ok := got["period"]; ok {
		t.Error("embedded struct written as a nested object")
	}
	if _, ok := got["name"]; ok {
		t.Error("nil embedded pointer should contribute no fields")
	}
	if tagged, ok := got["tagged"].(map[string]any); !ok || tagged["month"] != "Sep" {
		t.Errorf("tagged = %#v, want nested object", got["tagged"])
	}

	want, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var std map[string]any
	if err := json.Unmarshal(want, &std); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for k := range std {
		if _, ok := got[k]; !ok {
			t.Errorf("key %q from encoding/json missing from sanitized output", k)
		}
	}
	if len(got) != len(std) {
		t.Errorf("sanitized keys = %v, encoding/json keys = %v", got, std)
	}
}
