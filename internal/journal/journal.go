// Package journal
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
)

// Writer appends a compact one-line summary per scan to timeline.log and
// writes a verbose JSON snapshot file per scan, both under dir.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// AppendTimeline writes one compact line: timestamp, source, pair count and
// the best opportunity if any.
func (w *Writer) AppendTimeline(ts time.Time, source string, pairCount int, opps []market.Opportunity) error {
	line := fmt.Sprintf("%s source=%s pairs=%d opps=%d",
		ts.UTC().Format(time.RFC3339), source, pairCount, len(opps))
	if len(opps) > 0 {
		best := opps[0]
		line += fmt.Sprintf(" best=%s/%s net=%.4f%% vol=%.0f profit=%.0f",
			strings.Join(best.Assets, "-"), best.Bridge, best.NetPct, best.MaxVolumeLocal, best.ExpectedProfit)
	}
	line += "\n"

	f, err := os.OpenFile(filepath.Join(w.dir, "timeline.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening timeline: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending timeline: %w", err)
	}
	return nil
}

// scanSnapshot is the verbose per-scan file shape.
type scanSnapshot struct {
	ScanID        string               `json:"scan_id"`
	Time          time.Time            `json:"time"`
	Source        string               `json:"source"`
	Opportunities []market.Opportunity `json:"opportunities"`
}

// WriteSnapshot writes the full opportunity list of one scan to
// scan_<unix>.json.
func (w *Writer) WriteSnapshot(ts time.Time, scanID, source string, opps []market.Opportunity) error {
	snap := scanSnapshot{
		ScanID:        scanID,
		Time:          ts.UTC(),
		Source:        source,
		Opportunities: opps,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scan snapshot: %w", err)
	}
	name := fmt.Sprintf("scan_%d.json", ts.UTC().Unix())
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0644); err != nil {
		return fmt.Errorf("writing scan snapshot: %w", err)
	}
	return nil
}
