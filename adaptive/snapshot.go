package adaptive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	White = "#ffffff"
	Black = "#000000"

	// DefaultSnapshotPath is where consumers look for the published colours.
	DefaultSnapshotPath = "/tmp/molten-adaptive-colors.json"
)

// ErrNoSnapshot is returned by ReadSnapshot before the first publish.
var ErrNoSnapshot = errors.New("adaptive: no snapshot published yet")

// Entry is the published record for one region. Luminance keeps the fixed six-decimal
// formatting consumers parse.
type Entry struct {
	Luminance json.Number `json:"luminance"`
	IsDark    bool        `json:"isDark"`
	TextColor string      `json:"textColor"`
	IconColor string      `json:"iconColor"`
}

// Lum parses the luminance value.
func (e Entry) Lum() (float64, error) { return e.Luminance.Float64() }

// Snapshot maps region names to entries.
type Snapshot map[string]Entry

func entryFor(r Region) Entry {
	fg := Black
	if r.IsDark {
		fg = White
	}
	return Entry{
		Luminance: json.Number(strconv.FormatFloat(r.Luminance, 'f', 6, 64)),
		IsDark:    r.IsDark,
		TextColor: fg,
		IconColor: fg,
	}
}

// Marshal encodes the snapshot as a single JSON object with keys in sorted order.
func (s Snapshot) Marshal() ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	return json.Marshal(map[string]Entry(s))
}

// ReadSnapshot loads a published snapshot. A missing file yields ErrNoSnapshot; consumers
// should retry later rather than treat it as fatal.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return s, nil
}
