// SPDX-License-Identifier: MIT

package census

import (
	"context"
	"fmt"
	"net/url"
)

// CrossSection selects the dimension of the ASM state/industry series.
type CrossSection string

const (
	CrossSectionState    CrossSection = "state"
	CrossSectionIndustry CrossSection = "industry"
)

// CompanySummary fetches Annual Survey of Entrepreneurs company summary data
// by state. With micro set, metropolitan/micropolitan area data is returned
// for all areas and the state parameter is ignored.
func (c *Client) CompanySummary(ctx context.Context, year int, state string, micro bool) (*Table, error) {
	return c.aseDataset(ctx, DatasetASECompanies, "csa", "VET_GROUP_LABEL", year, state, micro)
}

// BusinessCharacteristics fetches Annual Survey of Entrepreneurs business
// characteristics data by state, with the same micro semantics as
// CompanySummary.
func (c *Client) BusinessCharacteristics(ctx context.Context, year int, state string, micro bool) (*Table, error) {
	return c.aseDataset(ctx, DatasetASEBusinesses, "cscb", "RCPPDEMP_F", year, state, micro)
}

func (c *Client) aseDataset(ctx context.Context, dataset, kind, variable string, year int, state string, micro bool) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if state == "" {
		state = Wildcard
	}

	q := url.Values{}
	q.Set("get", variable)
	if micro {
		q.Set("for", msaGeography)
	} else {
		q.Set("for", "state:"+state)
	}
	path := fmt.Sprintf("/data/%d/ase/%s", year, kind)
	return c.get(ctx, dataset, path, q)
}

// Manufacturing fetches the Annual Survey of Manufactures area series for a
// NAICS sector, e.g. "31-33", across the whole US.
func (c *Client) Manufacturing(ctx context.Context, year int, sector string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("sector", sector); err != nil {
		return nil, err
	}

	naics := fmt.Sprintf("NAICS%d", year)
	q := url.Values{}
	q.Set("get", fmt.Sprintf("%s_LABEL,%s,EMP", naics, naics))
	q.Set("for", "us:*")
	// The area series labels each vintage with the following survey year.
	q.Set("YEAR", fmt.Sprintf("%d", year+1))
	q.Set(naics, sector)
	path := fmt.Sprintf("/data/timeseries/asm/area%d", year)
	return c.get(ctx, DatasetASMArea, path, q)
}

// StateManufacturing fetches the ASM state or industry series for a NAICS
// sector. The cross section must be CrossSectionState or CrossSectionIndustry;
// an empty state selects all states.
func (c *Client) StateManufacturing(ctx context.Context, year int, sector string, cross CrossSection, state string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("sector", sector); err != nil {
		return nil, err
	}
	if cross != CrossSectionState && cross != CrossSectionIndustry {
		return nil, invalidInput("cross section must be %q or %q (got %q)",
			CrossSectionState, CrossSectionIndustry, cross)
	}
	if state == "" {
		state = Wildcard
	}

	q := url.Values{}
	q.Set("get", "NAICS_TTL,EMP,GEO_TTL")
	q.Set("for", "state:"+state)
	q.Set("YEAR", fmt.Sprintf("%d", year))
	q.Set("NAICS", sector)
	path := "/data/timeseries/asm/" + string(cross)
	return c.get(ctx, DatasetASMSeries, path, q)
}

// NonemployerStatistics fetches yearly nonemployer receipts for all counties
// of a state, filtered by NAICS sector (e.g. "54" for professional services).
// An empty state selects all states.
func (c *Client) NonemployerStatistics(ctx context.Context, year int, sector, state string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("sector", sector); err != nil {
		return nil, err
	}
	if state == "" {
		state = Wildcard
	}

	q := url.Values{}
	q.Set("get", "NRCPTOT,NAME")
	q.Set("for", "county:*")
	q.Set("in", "state:"+state)
	q.Set(fmt.Sprintf("NAICS%d", year), sector)
	path := fmt.Sprintf("/data/%d/nonemp", year)
	return c.get(ctx, DatasetNonemployer, path, q)
}

// CountyBusinessPatterns fetches establishment counts by legal form of
// organization for a NAICS sector. This dataset needs no API key. The CBP
// vintage tags its NAICS columns with the previous year.
func (c *Client) CountyBusinessPatterns(ctx context.Context, year int, sector, state string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("sector", sector); err != nil {
		return nil, err
	}
	if state == "" {
		state = Wildcard
	}

	naics := fmt.Sprintf("NAICS%d", year-1)
	q := url.Values{}
	q.Set("get", fmt.Sprintf("ESTAB,LFO,%s_LABEL,NAME", naics))
	q.Set("for", "state:"+state)
	q.Set(naics, sector)
	path := fmt.Sprintf("/data/%d/cbp", year)
	return c.get(ctx, DatasetCBP, path, q)
}
