// Package reference holds the read-only lookup tables joined into every
// metadata record: company descriptions keyed by ticker and earnings
// dates keyed by ticker_YEAR_Qn. Tables are loaded once and never
// mutated, so lookups are safe from any goroutine.
package reference
