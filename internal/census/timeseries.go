// SPDX-License-Identifier: MIT

package census

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
)

// EconSubset selects an economic indicators time series.
type EconSubset string

const (
	// EconHousingVacancies is the housing vacancies and homeownership series.
	EconHousingVacancies EconSubset = "hv"
	// EconResidentialConstruction is the new residential construction series.
	EconResidentialConstruction EconSubset = "resconst"
)

func (s EconSubset) valid() bool {
	return s == EconHousingVacancies || s == EconResidentialConstruction
}

const econVariables = "cell_value,data_type_code,time_slot_id,category_code,seasonally_adj"

var yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// EconomicIndicators fetches one calendar year of an economic indicators
// series.
func (c *Client) EconomicIndicators(ctx context.Context, subset EconSubset, year int) (*Table, error) {
	if !subset.valid() {
		return nil, invalidInput("subset must be %q or %q (got %q)",
			EconHousingVacancies, EconResidentialConstruction, subset)
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("get", econVariables)
	q.Set("time", fmt.Sprintf("%d", year))
	return c.get(ctx, DatasetEcon, "/data/timeseries/eits/"+string(subset), q)
}

// EconomicIndicatorsRange fetches an economic indicators series over an
// inclusive month range; from and to use the "YYYY-MM" form.
func (c *Client) EconomicIndicatorsRange(ctx context.Context, subset EconSubset, from, to string) (*Table, error) {
	if !subset.valid() {
		return nil, invalidInput("subset must be %q or %q (got %q)",
			EconHousingVacancies, EconResidentialConstruction, subset)
	}
	if !yearMonthRe.MatchString(from) {
		return nil, invalidInput("from must use the YYYY-MM form (got %q)", from)
	}
	if !yearMonthRe.MatchString(to) {
		return nil, invalidInput("to must use the YYYY-MM form (got %q)", to)
	}
	if from > to {
		return nil, invalidInput("range start %q is after range end %q", from, to)
	}

	q := url.Values{}
	q.Set("get", econVariables)
	q.Set("time", fmt.Sprintf("from %s to %s", from, to))
	return c.get(ctx, DatasetEcon, "/data/timeseries/eits/"+string(subset), q)
}

// HealthInsurance fetches SAHIE insured/uninsured counts per county for a
// year. Empty state or county select all; this dataset needs no API key.
func (c *Client) HealthInsurance(ctx context.Context, year int, state, county string) (*Table, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if state == "" {
		state = Wildcard
	}
	if county == "" {
		county = Wildcard
	}

	q := url.Values{}
	q.Set("get", "NIC_PT,NUI_PT")
	q.Set("for", "county:"+county)
	q.Set("in", "state:"+state)
	q.Set("time", fmt.Sprintf("%d", year))
	return c.get(ctx, DatasetHealthInsurance, "/data/timeseries/healthins/sahie", q)
}
