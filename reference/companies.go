package reference

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/table"
)

// Column headers of the company table.
const (
	ColumnTicker   = "Ticker"
	ColumnCompany  = "Company"
	ColumnCountry  = "Country"
	ColumnSector   = "Sector"
	ColumnIndustry = "Industry"
)

// Companies maps tickers to company descriptions.
type Companies struct {
	byTicker map[string]core.Company
}

// NewCompanies builds a table from companies. Later duplicates are ignored.
func NewCompanies(companies ...core.Company) *Companies {
	c := &Companies{byTicker: make(map[string]core.Company, len(companies))}
	for _, company := range companies {
		if _, dup := c.byTicker[company.Ticker]; dup {
			continue
		}
		c.byTicker[company.Ticker] = company
	}
	return c
}

// LoadCompanies reads the company table from a CSV or XLSX file with the
// columns Ticker, Company, Country, Sector and Industry.
func LoadCompanies(path string) (*Companies, error) {
	tbl, err := table.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	idx, err := tbl.Columns(ColumnTicker, ColumnCompany, ColumnCountry, ColumnSector, ColumnIndustry)
	if err != nil {
		return nil, fmt.Errorf("load companies: %s: %w", path, err)
	}

	companies := make([]core.Company, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		ticker := table.Cell(row, idx[0])
		if ticker == "" {
			slog.Debug("skipping company row without ticker", "path", path, "row", i+2)
			continue
		}
		companies = append(companies, core.Company{
			Ticker:   ticker,
			Name:     table.Cell(row, idx[1]),
			Country:  table.Cell(row, idx[2]),
			Sector:   table.Cell(row, idx[3]),
			Industry: table.Cell(row, idx[4]),
		})
	}
	return NewCompanies(companies...), nil
}

// Lookup returns the company for ticker. Matching is exact.
func (c *Companies) Lookup(ticker string) (core.Company, error) {
	company, ok := c.byTicker[strings.TrimSpace(ticker)]
	if !ok {
		return core.Company{}, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return company, nil
}

// Len returns the number of companies in the table.
func (c *Companies) Len() int {
	return len(c.byTicker)
}
