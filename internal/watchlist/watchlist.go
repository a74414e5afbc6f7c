package watchlist

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Watchlist is the set of symbols the scheduler refreshes and the scan
// command evaluates.
type Watchlist struct {
	Symbols []string `yaml:"symbols"`
}

// Load reads a watchlist file. Symbols are uppercased, trimmed and
// deduplicated, preserving first-seen order. A missing file is an
// error: the commands that need a watchlist cannot do anything useful
// without one.
func Load(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist file: %w", err)
	}

	seen := make(map[string]bool)
	symbols := make([]string, 0, len(wl.Symbols))
	for _, s := range wl.Symbols {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("watchlist %s contains no symbols", path)
	}

	wl.Symbols = symbols
	return &wl, nil
}
