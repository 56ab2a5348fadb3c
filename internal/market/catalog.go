package market

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Catalog is the immutable set of companies loaded at startup.
type Catalog struct {
	companies []Company
	byTicker  map[Ticker]Company
	bySector  map[Sector][]Ticker
}

// NewCatalog validates the company list and builds lookup indexes.
// An empty catalog is legal; the price engine treats it as a no-op
// market.
func NewCatalog(companies []Company) (*Catalog, error) {
	c := &Catalog{
		companies: make([]Company, len(companies)),
		byTicker:  make(map[Ticker]Company, len(companies)),
		bySector:  make(map[Sector][]Ticker),
	}
	copy(c.companies, companies)

	for _, co := range c.companies {
		if co.Ticker == "" {
			return nil, fmt.Errorf("catalog: company %q has no ticker", co.Name)
		}
		if co.Sector == "" {
			return nil, fmt.Errorf("catalog: %s has no sector", co.Ticker)
		}
		if co.StartPrice <= 0 {
			return nil, fmt.Errorf("catalog: %s has non-positive start price %v", co.Ticker, co.StartPrice)
		}
		if _, dup := c.byTicker[co.Ticker]; dup {
			return nil, fmt.Errorf("catalog: duplicate ticker %s", co.Ticker)
		}
		c.byTicker[co.Ticker] = co
		c.bySector[co.Sector] = append(c.bySector[co.Sector], co.Ticker)
	}
	return c, nil
}

// ParseCatalog decodes a JSON company list and builds a Catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var companies []Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return NewCatalog(companies)
}

// Companies returns all companies in load order.
func (c *Catalog) Companies() []Company {
	out := make([]Company, len(c.companies))
	copy(out, c.companies)
	return out
}

// Lookup returns the company for a ticker.
func (c *Catalog) Lookup(t Ticker) (Company, bool) {
	co, ok := c.byTicker[t]
	return co, ok
}

// Has reports whether the ticker exists in the catalog.
func (c *Catalog) Has(t Ticker) bool {
	_, ok := c.byTicker[t]
	return ok
}

// Tickers returns all tickers in load order.
func (c *Catalog) Tickers() []Ticker {
	out := make([]Ticker, 0, len(c.companies))
	for _, co := range c.companies {
		out = append(out, co.Ticker)
	}
	return out
}

// SectorOf returns the sector of a ticker, or "" if unknown.
func (c *Catalog) SectorOf(t Ticker) Sector {
	return c.byTicker[t].Sector
}

// SectorMembers returns the tickers belonging to a sector.
func (c *Catalog) SectorMembers(s Sector) []Ticker {
	members := c.bySector[s]
	out := make([]Ticker, len(members))
	copy(out, members)
	return out
}

// Sectors returns the distinct sector names, sorted.
func (c *Catalog) Sectors() []Sector {
	out := make([]Sector, 0, len(c.bySector))
	for s := range c.bySector {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Size returns the number of companies.
func (c *Catalog) Size() int {
	return len(c.companies)
}
