package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"

	"ChartFeed/internal/model"
)

// ManifestName is the fixed name of the manifest file listing per-day files.
const ManifestName = "index.json"

// Publisher writes per-day close-price files, the manifest and the bundled
// JS aggregate for one symbol into a single output directory.
type Publisher struct {
	Dir     string
	Symbol  string
	Binding string // JS global assigned by the aggregate, e.g. SPY_DATA
}

// NewPublisher creates a Publisher. An empty binding defaults to the
// upper-cased symbol with a _DATA suffix.
func NewPublisher(dir, symbol, binding string) *Publisher {
	if binding == "" {
		binding = strings.ToUpper(symbol) + "_DATA"
	}
	return &Publisher{Dir: dir, Symbol: symbol, Binding: binding}
}

// EnsureDir creates the output directory if it does not exist yet.
func (p *Publisher) EnsureDir() error {
	return os.MkdirAll(p.Dir, 0755)
}

// AggregateName returns the aggregate JS file name, e.g. "spy_data.js".
func (p *Publisher) AggregateName() string {
	return strings.ToLower(p.Symbol) + "_data.js"
}

// DayFileName returns the per-day file name for a date, e.g. "SPY_2025-06-02.json".
func (p *Publisher) DayFileName(date string) string {
	return fmt.Sprintf("%s_%s.json", p.Symbol, date)
}

// dayFile is the on-disk shape of a per-day price file.
type dayFile struct {
	Date   string    `json:"date"`
	Prices []float64 `json:"prices"`
}

// manifest is the on-disk shape of index.json.
type manifest struct {
	Files []string `json:"files"`
}

// RoundPrice rounds a price to two decimal places, ties away from zero.
func RoundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundPrices(prices []float64) []float64 {
	out := make([]float64, len(prices))
	for i, v := range prices {
		out[i] = RoundPrice(v)
	}
	return out
}

// Prune deletes stale per-day files ("<SYMBOL>_*.json") from the output
// directory. The manifest and the aggregate are left in place; they are
// only ever overwritten by Publish.
func (p *Publisher) Prune() error {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read output dir: %w", err)
	}
	prefix := p.Symbol + "_"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(p.Dir, name)); err != nil {
			return fmt.Errorf("remove stale file %s: %w", name, err)
		}
	}
	return nil
}

// Publish replaces the published data set with the given days: it prunes
// stale per-day files, writes one file per day, then rewrites the manifest
// and the aggregate. Days are written in ascending date order and prices are
// rounded to two decimals on the way out. It returns the per-day file names
// that were written.
func (p *Publisher) Publish(days []model.TradingDay) ([]string, error) {
	if err := p.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	ordered := make([]model.TradingDay, len(days))
	copy(ordered, days)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	if err := p.Prune(); err != nil {
		return nil, err
	}

	saved := make([]string, 0, len(ordered))
	rounded := make([][]float64, len(ordered))
	for i, day := range ordered {
		rounded[i] = roundPrices(day.Prices)
		name := p.DayFileName(day.Date)
		data, err := json.Marshal(dayFile{Date: day.Date, Prices: rounded[i]})
		if err != nil {
			return nil, fmt.Errorf("encode day %s: %w", day.Date, err)
		}
		if err := os.WriteFile(filepath.Join(p.Dir, name), data, 0644); err != nil {
			return nil, fmt.Errorf("write day file %s: %w", name, err)
		}
		saved = append(saved, name)
	}

	if err := p.writeManifest(saved); err != nil {
		return nil, err
	}
	if err := p.writeAggregate(ordered, rounded); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Published %d day files + %s to %s", len(saved), p.AggregateName(), p.Dir)
	return saved, nil
}

func (p *Publisher) writeManifest(files []string) error {
	data, err := json.Marshal(manifest{Files: files})
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(p.Dir, ManifestName)
	if err := os.WriteFile(path, pretty.Pretty(data), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// writeAggregate emits a single JS file assigning the full data set to a
// window global, so charts can load it over file:// without CORS issues.
// The shape is window.<BINDING>=[["<date>",[<prices>]],...];
func (p *Publisher) writeAggregate(days []model.TradingDay, rounded [][]float64) error {
	entries := make([]string, len(days))
	for i, day := range days {
		data, err := json.Marshal([2]interface{}{day.Date, rounded[i]})
		if err != nil {
			return fmt.Errorf("encode aggregate entry %s: %w", day.Date, err)
		}
		entries[i] = string(data)
	}
	body := "window." + p.Binding + "=[\n" + strings.Join(entries, ",\n") + "\n];\n"
	path := filepath.Join(p.Dir, p.AggregateName())
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("write aggregate: %w", err)
	}
	return nil
}
