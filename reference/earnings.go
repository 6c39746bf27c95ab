package reference

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fioneer/fioneer/core"
)

// EarningsDates maps earnings-date keys (aapl_2024_Q1) to dates.
type EarningsDates struct {
	dates map[string]string
}

// NewEarningsDates builds a table from a key to date map.
func NewEarningsDates(dates map[string]string) *EarningsDates {
	copied := make(map[string]string, len(dates))
	for k, v := range dates {
		copied[k] = v
	}
	return &EarningsDates{dates: copied}
}

// LoadEarningsDates reads a JSON object of key to date string.
func LoadEarningsDates(path string) (*EarningsDates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load earnings dates: %w", err)
	}
	var dates map[string]string
	if err := json.Unmarshal(data, &dates); err != nil {
		return nil, fmt.Errorf("load earnings dates: %s: %w", path, err)
	}
	return &EarningsDates{dates: dates}, nil
}

// Lookup returns the earnings date of the call identified by key.
func (e *EarningsDates) Lookup(key core.FileKey) (string, error) {
	date := e.dates[key.EarningsKey()]
	if date == "" {
		return "", fmt.Errorf("%w: %s", ErrNoEarningsDate, key.EarningsKey())
	}
	return date, nil
}

// Len returns the number of entries in the table.
func (e *EarningsDates) Len() int {
	return len(e.dates)
}
