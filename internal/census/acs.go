// SPDX-License-Identifier: MIT

package census

import (
	"context"
	"fmt"
	"net/url"
)

// Span selects the estimate window of an American Community Survey dataset.
// Multi-year spans cover the range ending at the requested year, so year
// 2010 with SpanThreeYear covers 2007-2010.
type Span int

const (
	SpanOneYear   Span = 1
	SpanThreeYear Span = 3
	SpanFiveYear  Span = 5
)

func (s Span) valid() bool {
	return s == SpanOneYear || s == SpanThreeYear || s == SpanFiveYear
}

// Wildcard matches all geographies of a level, the upstream "*" selector.
const Wildcard = "*"

// msaGeography is the metropolitan/micropolitan statistical area selector
// used by the ASE datasets when micro data is requested.
const msaGeography = "metropolitan statistical area/micropolitan statistical area:*"

// DetailedTables fetches ACS detailed tables for a population group,
// e.g. group "B01001" (sex by age).
func (c *Client) DetailedTables(ctx context.Context, year int, group string, span Span) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("group", group); err != nil {
		return nil, err
	}
	if !span.valid() {
		return nil, invalidInput("span must be 1, 3 or 5 (got %d)", span)
	}

	q := url.Values{}
	q.Set("get", fmt.Sprintf("NAME,group(%s)", group))
	q.Set("for", "us:1")
	path := fmt.Sprintf("/data/%d/acs/acs%d", year, span)
	return c.get(ctx, DatasetACSDetailed, path, q)
}

// SubjectTables fetches ACS 1-year subject tables for a group, e.g. "S0201".
func (c *Client) SubjectTables(ctx context.Context, year int, group string) (*Table, error) {
	return c.acsProfile(ctx, DatasetACSSubject, "profile", year, group)
}

// ComparisonProfiles fetches ACS 1-year comparison profiles for a group,
// e.g. "CP05".
func (c *Client) ComparisonProfiles(ctx context.Context, year int, group string) (*Table, error) {
	return c.acsProfile(ctx, DatasetACSComparison, "cprofile", year, group)
}

func (c *Client) acsProfile(ctx context.Context, dataset, kind string, year int, group string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("group", group); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("get", fmt.Sprintf("group(%s)", group))
	q.Set("for", "us:1")
	path := fmt.Sprintf("/data/%d/acs/acs1/%s", year, kind)
	return c.get(ctx, dataset, path, q)
}

// PopulationProfile fetches ACS selected population profiles for a group and
// a population subgroup, e.g. group "S0201" with popGroup "001".
func (c *Client) PopulationProfile(ctx context.Context, year int, group, popGroup string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("group", group); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("popgroup", popGroup); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("get", fmt.Sprintf("NAME,group(%s)", group))
	q.Set("for", "us:1")
	q.Set("POPGROUP", popGroup)
	path := fmt.Sprintf("/data/%d/acs/acs1/spp", year)
	return c.get(ctx, DatasetACSPopulation, path, q)
}

// SupplementalEstimates fetches ACS supplemental population estimates per
// state. An empty state selects all states.
func (c *Client) SupplementalEstimates(ctx context.Context, year int, state string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if state == "" {
		state = Wildcard
	}

	q := url.Values{}
	q.Set("get", "NAME,K200101_001E")
	q.Set("for", "state:"+state)
	path := fmt.Sprintf("/data/%d/acs/acsse", year)
	return c.get(ctx, DatasetACSSupplemental, path, q)
}
