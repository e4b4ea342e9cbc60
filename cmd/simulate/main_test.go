package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgeplay/agent"
	"bridgeplay/sim"
)

func TestPrintComparison(t *testing.T) {
	rows := []sim.Comparison{{
		NamedLineup: sim.NamedLineup{Name: "Rule-Based Everyone", Lineup: agent.Uniform(agent.NameRuleBased)},
		Stats: sim.Stats{
			Games:             100,
			LeadWinRate:       0.42,
			LeadContractRate:  0.55,
			AvgLeadScore:      -3.5,
			AvgLeadTricks:     6.25,
			AvgDefenderTricks: 6.75,
		},
	}}

	var buf bytes.Buffer
	printComparison(&buf, rows)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "Made")
	assert.Contains(t, lines[0], "Lead Trk")
	assert.Contains(t, lines[0], "Def Trk")
	assert.Equal(t, []string{"Rule-Based", "Everyone", "42.0%", "55.0%", "-3.50", "6.25", "6.75"}, strings.Fields(lines[1]))
}
