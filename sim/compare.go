package sim

import (
	"context"
	"fmt"

	"bridgeplay/agent"
)

// NamedLineup labels a seating for comparison runs
type NamedLineup struct {
	Name   string       `json:"name"`
	Lineup agent.Lineup `json:"lineup"`
}

// Comparison is one row of a baseline comparison
type Comparison struct {
	NamedLineup
	Stats Stats `json:"stats"`
}

// BaselineLineups are the standard seatings compared against each other
func BaselineLineups() []NamedLineup {
	const (
		rnd  = agent.NameRandom
		high = agent.NameHighCard
		low  = agent.NameLowCard
		rule = agent.NameRuleBased
	)
	return []NamedLineup{
		{Name: "All Random", Lineup: agent.Uniform(rnd)},
		{Name: "High Lead vs Random Defenders", Lineup: agent.Lineup{rnd, rnd, rnd, high}},
		{Name: "Low Lead vs Random Defenders", Lineup: agent.Lineup{rnd, rnd, rnd, low}},
		{Name: "Random Lead vs High Defenders", Lineup: agent.Lineup{high, rnd, high, rnd}},
		{Name: "High Everyone", Lineup: agent.Uniform(high)},
		{Name: "Rule-Based Everyone", Lineup: agent.Uniform(rule)},
		{Name: "Rule-Based Lead vs Random", Lineup: agent.Lineup{rnd, rule, rnd, rule}},
	}
}

// Compare runs base once per lineup, replacing only the lineup
func Compare(ctx context.Context, base Config, lineups []NamedLineup) ([]Comparison, error) {
	out := make([]Comparison, 0, len(lineups))
	for _, nl := range lineups {
		cfg := base
		cfg.Lineup = nl.Lineup
		stats, err := NewRunner(cfg, nil).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", nl.Name, err)
		}
		out = append(out, Comparison{NamedLineup: nl, Stats: stats})
	}
	return out, nil
}
