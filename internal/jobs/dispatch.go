// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pooja61096/uscensus/internal/census"
	"github.com/pooja61096/uscensus/internal/config"
)

// Fetch maps a target onto the matching client operation and runs it.
// Parameter errors wrap census.ErrInvalidInput.
func Fetch(ctx context.Context, client *census.Client, t config.Target) (*census.Table, error) {
	p := params(t.Params)

	switch t.Dataset {
	case census.DatasetACSDetailed:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		span, err := p.span()
		if err != nil {
			return nil, err
		}
		return client.DetailedTables(ctx, year, p.get("group"), span)

	case census.DatasetACSSubject:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.SubjectTables(ctx, year, p.get("group"))

	case census.DatasetACSComparison:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.ComparisonProfiles(ctx, year, p.get("group"))

	case census.DatasetACSPopulation:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.PopulationProfile(ctx, year, p.get("group"), p.get("popgroup"))

	case census.DatasetACSSupplemental:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.SupplementalEstimates(ctx, year, p.get("state"))

	case census.DatasetASECompanies:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.CompanySummary(ctx, year, p.get("state"), p.bool("micro"))

	case census.DatasetASEBusinesses:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.BusinessCharacteristics(ctx, year, p.get("state"), p.bool("micro"))

	case census.DatasetASMArea:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.Manufacturing(ctx, year, p.get("sector"))

	case census.DatasetASMSeries:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		cross := census.CrossSection(p.getDefault("cross", string(census.CrossSectionState)))
		return client.StateManufacturing(ctx, year, p.get("sector"), cross, p.get("state"))

	case census.DatasetNonemployer:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.NonemployerStatistics(ctx, year, p.get("sector"), p.get("state"))

	case census.DatasetCBP:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.CountyBusinessPatterns(ctx, year, p.get("sector"), p.get("state"))

	case census.DatasetEcon:
		subset := census.EconSubset(p.get("subset"))
		if from, to := p.get("from"), p.get("to"); from != "" || to != "" {
			return client.EconomicIndicatorsRange(ctx, subset, from, to)
		}
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.EconomicIndicators(ctx, subset, year)

	case census.DatasetHealthInsurance:
		year, err := p.year()
		if err != nil {
			return nil, err
		}
		return client.HealthInsurance(ctx, year, p.get("state"), p.get("county"))

	default:
		return nil, fmt.Errorf("%w: unknown dataset %q", census.ErrInvalidInput, t.Dataset)
	}
}

type params map[string]string

func (p params) get(key string) string {
	return strings.TrimSpace(p[key])
}

func (p params) getDefault(key, def string) string {
	if v := p.get(key); v != "" {
		return v
	}
	return def
}

func (p params) bool(key string) bool {
	switch strings.ToLower(p.get(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func (p params) year() (int, error) {
	raw := p.get("year")
	if raw == "" {
		return 0, fmt.Errorf("%w: missing year parameter", census.ErrInvalidInput)
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid year %q", census.ErrInvalidInput, raw)
	}
	return year, nil
}

func (p params) span() (census.Span, error) {
	raw := p.getDefault("span", "1")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid span %q", census.ErrInvalidInput, raw)
	}
	return census.Span(n), nil
}
