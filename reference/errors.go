package reference

import "errors"

var (
	// ErrUnknownTicker indicates the company table has no row for a ticker.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrNoEarningsDate indicates the earnings-date table has no entry for a call.
	ErrNoEarningsDate = errors.New("no earnings date")
)
