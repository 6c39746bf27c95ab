package core

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FileKey identifies one earnings call: company ticker, fiscal year and quarter.
type FileKey struct {
	Ticker  string
	Year    int
	Quarter int
}

// ParseFileKey parses a filename stem of the form ticker_YEAR_Qn.
// The ticker is case-insensitive and is stored upper-cased.
func ParseFileKey(stem string) (FileKey, error) {
	parts := strings.Split(stem, "_")
	if len(parts) != 3 {
		return FileKey{}, fmt.Errorf("%w: %q: expected ticker_YEAR_Qn", ErrInvalidFileKey, stem)
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return FileKey{}, fmt.Errorf("%w: %q: bad year %q", ErrInvalidFileKey, stem, parts[1])
	}

	q := parts[2]
	if len(q) < 2 || (q[0] != 'Q' && q[0] != 'q') {
		return FileKey{}, fmt.Errorf("%w: %q: bad quarter %q", ErrInvalidFileKey, stem, q)
	}
	quarter, err := strconv.Atoi(q[1:])
	if err != nil {
		return FileKey{}, fmt.Errorf("%w: %q: bad quarter %q", ErrInvalidFileKey, stem, q)
	}

	key := FileKey{
		Ticker:  strings.ToUpper(strings.TrimSpace(parts[0])),
		Year:    year,
		Quarter: quarter,
	}
	if err := ValidateFileKey(key); err != nil {
		return FileKey{}, fmt.Errorf("%q: %w", stem, err)
	}
	return key, nil
}

// FileKeyFromPath parses the key from the base name of path, ignoring its extension.
func FileKeyFromPath(path string) (FileKey, error) {
	base := filepath.Base(path)
	return ParseFileKey(strings.TrimSuffix(base, filepath.Ext(base)))
}

// String returns the artifact name, e.g. AAPL_2024_Q1.
func (k FileKey) String() string {
	return fmt.Sprintf("%s_%d_Q%d", k.Ticker, k.Year, k.Quarter)
}

// EarningsKey returns the key used by the earnings-date table, e.g. aapl_2024_Q1.
func (k FileKey) EarningsKey() string {
	return fmt.Sprintf("%s_%d_Q%d", strings.ToLower(k.Ticker), k.Year, k.Quarter)
}
