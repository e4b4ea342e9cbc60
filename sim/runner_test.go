package sim

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgeplay/agent"
	"bridgeplay/game"
)

func TestAggregate(t *testing.T) {
	results := []*game.GameResult{
		{Contract: 7, LeadTricks: 9, DefenderTricks: 4, LeadScore: 40, DefenderScore: -40},
		nil,
		{Contract: 7, LeadTricks: 7, DefenderTricks: 6, LeadScore: 0, DefenderScore: 0},
		{Contract: 7, LeadTricks: 3, DefenderTricks: 10, LeadScore: -80, DefenderScore: 80},
		{Contract: 7, LeadTricks: 8, DefenderTricks: 5, LeadScore: 20, DefenderScore: -20},
	}

	stats := Aggregate(results)
	assert.Equal(t, 4, stats.Games)
	assert.InDelta(t, 0.5, stats.LeadWinRate, 1e-9, "a made-exactly game is not a win")
	assert.InDelta(t, 0.75, stats.LeadContractRate, 1e-9)
	assert.InDelta(t, -5.0, stats.AvgLeadScore, 1e-9)
	assert.InDelta(t, 6.75, stats.AvgLeadTricks, 1e-9)
	assert.InDelta(t, 6.25, stats.AvgDefenderTricks, 1e-9)

	assert.Equal(t, Stats{}, Aggregate(nil))
}

func TestGameSeedsAreDistinct(t *testing.T) {
	seen := map[int64]int{}
	for i := 0; i < 1000; i++ {
		s := GameSeed(7, i)
		prev, dup := seen[s]
		require.False(t, dup, "games %d and %d share seed %d", prev, i, s)
		seen[s] = i
	}
	assert.Equal(t, GameSeed(7, 3), GameSeed(7, 3))
	assert.NotEqual(t, GameSeed(7, 3), GameSeed(8, 3))
}

func TestRunRejectsEmptyBatch(t *testing.T) {
	_, err := NewRunner(Config{Contract: 7, Lineup: agent.Uniform(agent.NameRandom)}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoGames)
}

func TestRunSucceedsOnLiveContext(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Contract: 7, Lineup: agent.Uniform(agent.NameLowCard), Games: 12, Seed: 8, Workers: 3}

	stats, err := NewRunner(cfg, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg.Games, stats.Games)
	assert.Zero(t, stats.Failed)
	assert.InDelta(t, float64(game.TricksPerGame), stats.AvgLeadTricks+stats.AvgDefenderTricks, 1e-9)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := Config{
		Contract: 7,
		Lineup:   agent.Lineup{agent.NameRandom, agent.NameRuleBased, agent.NameRandom, agent.NameRuleBased},
		Games:    60,
		Seed:     12345,
	}

	run := func(workers int) (Stats, map[int]game.GameResult) {
		c := cfg
		c.Workers = workers
		var mu sync.Mutex
		seen := map[int]game.GameResult{}
		stats, err := NewRunner(c, func(i int, r game.GameResult) {
			mu.Lock()
			defer mu.Unlock()
			seen[i] = r
		}).Run(context.Background())
		require.NoError(t, err)
		return stats, seen
	}

	serial, serialGames := run(1)
	parallel, parallelGames := run(8)

	assert.Equal(t, 60, serial.Games)
	assert.Zero(t, serial.Failed)
	assert.Equal(t, serial.AvgLeadScore, parallel.AvgLeadScore)
	assert.Equal(t, serial.LeadWinRate, parallel.LeadWinRate)
	assert.Equal(t, serial.AvgLeadTricks, parallel.AvgLeadTricks)

	require.Len(t, parallelGames, 60)
	for i, r := range serialGames {
		assert.Equal(t, r.Tricks, parallelGames[i].Tricks, "game %d", i)
	}
}

func TestRunStatsConserveTricks(t *testing.T) {
	stats, err := NewRunner(Config{
		Contract: 5,
		Lineup:   agent.Uniform(agent.NameHighCard),
		Games:    40,
		Seed:     3,
		Workers:  4,
		LeadRule: game.WinnerLeads,
	}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, float64(game.TricksPerGame), stats.AvgLeadTricks+stats.AvgDefenderTricks, 1e-9)
	assert.InDelta(t, (stats.AvgLeadTricks-5)*game.PointsPerTrick, stats.AvgLeadScore, 1e-9)
}

func TestRunFailures(t *testing.T) {
	bad := Config{Contract: 7, Lineup: agent.Lineup{"rule", "rule", "missing", "rule"}, Games: 5, Workers: 2}

	_, err := NewRunner(bad, nil).Run(context.Background())
	assert.ErrorIs(t, err, agent.ErrUnknownPolicy)

	bad.SkipFailed = true
	stats, err := NewRunner(bad, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Failed)
	assert.Zero(t, stats.Games)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(Config{
		Contract: 7,
		Lineup:   agent.Uniform(agent.NameRandom),
		Games:    10,
	}, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareBaselines(t *testing.T) {
	lineups := BaselineLineups()
	require.Len(t, lineups, 7)

	rows, err := Compare(context.Background(), Config{Contract: 7, Games: 10, Seed: 1, Workers: 2}, lineups)
	require.NoError(t, err)
	require.Len(t, rows, len(lineups))
	for i, row := range rows {
		assert.Equal(t, lineups[i].Name, row.Name)
		assert.Equal(t, 10, row.Stats.Games, row.Name)
	}

	_, err = Compare(context.Background(), Config{Contract: 7}, lineups)
	assert.ErrorIs(t, err, ErrNoGames)
}
