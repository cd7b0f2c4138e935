package publisher

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ChartFeed/internal/model"
)

func TestRoundPrice_TiesAwayFromZero(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{19.995, 20},
		{2.675, 2.68},
		{2.665, 2.67},
		{1.005, 1.01},
		{0.125, 0.13},
		{-2.675, -2.68},
		{-19.995, -20},
		{591.2349, 591.23},
		{591.2351, 591.24},
		{100, 100},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundPrice(tt.in); got != tt.want {
			t.Errorf("RoundPrice(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewPublisher_BindingDefault(t *testing.T) {
	p := NewPublisher("data", "spy", "")
	if p.Binding != "SPY_DATA" {
		t.Errorf("default binding = %q, want SPY_DATA", p.Binding)
	}
	if p.AggregateName() != "spy_data.js" {
		t.Errorf("aggregate name = %q, want spy_data.js", p.AggregateName())
	}

	p = NewPublisher("data", "QQQ", "CUSTOM_SERIES")
	if p.Binding != "CUSTOM_SERIES" {
		t.Errorf("explicit binding = %q, want CUSTOM_SERIES", p.Binding)
	}
	if p.AggregateName() != "qqq_data.js" {
		t.Errorf("aggregate name = %q, want qqq_data.js", p.AggregateName())
	}
}

func TestPublish_WritesDayFilesManifestAndAggregate(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, "SPY", "")

	days := []model.TradingDay{
		{Date: "2025-06-03", Prices: []float64{590, 589.99}},
		{Date: "2025-06-02", Prices: []float64{591.1, 592.25}},
	}
	saved, err := p.Publish(days)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	wantSaved := []string{"SPY_2025-06-02.json", "SPY_2025-06-03.json"}
	if diff := cmp.Diff(wantSaved, saved); diff != "" {
		t.Fatalf("saved names mismatch (-want +got):\n%s", diff)
	}

	// Per-day files are compact JSON with date and prices only.
	data, err := os.ReadFile(filepath.Join(dir, "SPY_2025-06-02.json"))
	if err != nil {
		t.Fatalf("read day file: %v", err)
	}
	wantDay := `{"date":"2025-06-02","prices":[591.1,592.25]}`
	if string(data) != wantDay {
		t.Errorf("day file = %s, want %s", data, wantDay)
	}

	// The manifest lists the written files in ascending date order.
	var m manifest
	data, err = os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if diff := cmp.Diff(wantSaved, m.Files); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}

	// The aggregate assigns one window global with the full series.
	data, err = os.ReadFile(filepath.Join(dir, "spy_data.js"))
	if err != nil {
		t.Fatalf("read aggregate: %v", err)
	}
	wantJS := "window.SPY_DATA=[\n" +
		`["2025-06-02",[591.1,592.25]],` + "\n" +
		`["2025-06-03",[590,589.99]]` + "\n];\n"
	if string(data) != wantJS {
		t.Errorf("aggregate = %q, want %q", data, wantJS)
	}
}

func TestPublish_RoundsPricesOnTheWayOut(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, "SPY", "")

	if _, err := p.Publish([]model.TradingDay{
		{Date: "2025-06-02", Prices: []float64{19.995, 2.675, 591.2349}},
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "SPY_2025-06-02.json"))
	if err != nil {
		t.Fatalf("read day file: %v", err)
	}
	want := `{"date":"2025-06-02","prices":[20,2.68,591.23]}`
	if string(data) != want {
		t.Errorf("day file = %s, want %s", data, want)
	}

	data, err = os.ReadFile(filepath.Join(dir, "spy_data.js"))
	if err != nil {
		t.Fatalf("read aggregate: %v", err)
	}
	if !bytes.Contains(data, []byte("[20,2.68,591.23]")) {
		t.Errorf("aggregate not rounded: %s", data)
	}
}

func TestPublish_PrunesOnlyMatchingDayFiles(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, "SPY", "")

	// Anything matching SPY_*.json is replaced wholesale; everything else
	// in the directory is left alone.
	seed := []struct{ name, content string }{
		{"SPY_2020-01-01.json", `{"date":"2020-01-01","prices":[1]}`},
		{"SPY_notes.json", `{}`},
		{"QQQ_2020-01-01.json", `{"date":"2020-01-01","prices":[2]}`},
		{"readme.txt", "hands off"},
		{ManifestName, `{"files":["SPY_2020-01-01.json"]}`},
		{p.AggregateName(), "window.SPY_DATA=[\n\n];\n"},
	}
	for _, f := range seed {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.content), 0644); err != nil {
			t.Fatalf("seed %s: %v", f.name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "archive"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "archive", "SPY_old.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Publish([]model.TradingDay{
		{Date: "2025-06-02", Prices: []float64{591.1}},
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for _, gone := range []string{"SPY_2020-01-01.json", "SPY_notes.json"} {
		if _, err := os.Stat(filepath.Join(dir, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should have been pruned", gone)
		}
	}
	for _, kept := range []string{
		"QQQ_2020-01-01.json", "readme.txt",
		filepath.Join("archive", "SPY_old.json"),
	} {
		if _, err := os.Stat(filepath.Join(dir, kept)); err != nil {
			t.Errorf("%s should have survived: %v", kept, err)
		}
	}

	var m manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if diff := cmp.Diff([]string{"SPY_2025-06-02.json"}, m.Files); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestPublish_NoDaysWritesEmptyManifestAndAggregate(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, "SPY", "")

	// Stale day files still get pruned even when nothing replaces them.
	if err := os.WriteFile(filepath.Join(dir, "SPY_2020-01-01.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	saved, err := p.Publish(nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("expected no saved files, got %v", saved)
	}
	if _, err := os.Stat(filepath.Join(dir, "SPY_2020-01-01.json")); !os.IsNotExist(err) {
		t.Error("stale day file should have been pruned")
	}

	var m manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(m.Files) != 0 {
		t.Errorf("expected empty manifest, got %v", m.Files)
	}

	data, err = os.ReadFile(filepath.Join(dir, "spy_data.js"))
	if err != nil {
		t.Fatalf("read aggregate: %v", err)
	}
	if string(data) != "window.SPY_DATA=[\n\n];\n" {
		t.Errorf("empty aggregate = %q", data)
	}
}

func TestPublish_Idempotent(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, "SPY", "")

	days := []model.TradingDay{
		{Date: "2025-06-02", Prices: []float64{591.1, 592.25}},
		{Date: "2025-06-03", Prices: []float64{590, 589.99}},
	}

	snapshot := func() map[string][]byte {
		t.Helper()
		out := map[string][]byte{}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				t.Fatal(err)
			}
			out[e.Name()] = data
		}
		return out
	}

	if _, err := p.Publish(days); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	first := snapshot()

	if _, err := p.Publish(days); err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	second := snapshot()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("rerun not byte-identical (-first +second):\n%s", diff)
	}
}
