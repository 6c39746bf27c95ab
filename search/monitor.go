package search

import (
	"log/slog"

	"github.com/fioneer/fioneer/core"
)

// SearchMonitor provides hooks to observe the search process.
type SearchMonitor interface {
	Start(query string)
	AfterSimilaritySearch(matches []*core.SearchResult)
	KeywordHit(record *core.IndexedRecord)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                               {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.SearchResult) {}
func (n *noopMonitor) KeywordHit(_ *core.IndexedRecord)             {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)                {}

// LogMonitor reports each search stage to a logger at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

func (m *LogMonitor) Start(query string) {
	m.Logger.Debug("search started", "query", query)
}

func (m *LogMonitor) AfterSimilaritySearch(matches []*core.SearchResult) {
	ids := make([]core.ID, len(matches))
	for i, match := range matches {
		ids[i] = match.Record.Id
	}
	m.Logger.Debug("similarity search", "matches", len(matches), "ids", ids)
}

func (m *LogMonitor) KeywordHit(record *core.IndexedRecord) {
	m.Logger.Debug("verbatim keyword match", "id", record.Id, "file", record.Key)
}

func (m *LogMonitor) Finish(results []*core.SearchResult) {
	m.Logger.Debug("search finished", "results", len(results))
}
