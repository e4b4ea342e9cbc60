// Package sim plays batches of independent games and aggregates the results.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bridgeplay/agent"
	"bridgeplay/game"
)

var ErrNoGames = errors.New("batch needs at least one game")

// Config describes a batch
type Config struct {
	Contract   int
	Lineup     agent.Lineup
	Games      int
	Seed       int64
	Workers    int
	LeadRule   game.LeadRule
	Exposure   game.DummyExposure
	SkipFailed bool // log and count failed games instead of aborting the batch
	Verbose    bool
}

// Stats aggregates a finished batch
type Stats struct {
	Games             int           `json:"games"`
	Failed            int           `json:"failed"`
	LeadWinRate       float64       `json:"leadWinRate"`
	LeadContractRate  float64       `json:"leadContractRate"`
	AvgLeadScore      float64       `json:"avgLeadScore"`
	AvgLeadTricks     float64       `json:"avgLeadTricks"`
	AvgDefenderTricks float64       `json:"avgDefenderTricks"`
	Elapsed           time.Duration `json:"elapsed"`
	GamesPerSecond    float64       `json:"gamesPerSecond"`
}

// ResultHandler sees each completed game. Calls are serialized.
type ResultHandler func(index int, result game.GameResult)

// Runner plays the games of one batch concurrently
type Runner struct {
	cfg      Config
	onResult ResultHandler
}

// NewRunner returns a runner for cfg. Workers defaults to 1.
func NewRunner(cfg Config, onResult ResultHandler) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{cfg: cfg, onResult: onResult}
}

// GameSeed derives the seed of game i from the batch seed. Each game owns its
// generator, so results do not depend on scheduling.
func GameSeed(base int64, i int) int64 {
	z := uint64(base) + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// PlayOne plays a single game of the batch
func (r *Runner) PlayOne(i int) (game.GameResult, error) {
	seed := GameSeed(r.cfg.Seed, i)
	policies, err := r.cfg.Lineup.Policies(seed)
	if err != nil {
		return game.GameResult{}, err
	}
	g, err := game.New(r.cfg.Contract, policies,
		game.WithSeed(seed),
		game.WithLeadRule(r.cfg.LeadRule),
		game.WithDummyExposure(r.cfg.Exposure),
	)
	if err != nil {
		return game.GameResult{}, err
	}
	return g.PlayGame()
}

// Run plays every game and returns the aggregate. Without SkipFailed the
// first failing game cancels the batch.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if r.cfg.Games < 1 {
		return Stats{}, ErrNoGames
	}
	if r.cfg.Verbose {
		log.Printf("Running %d games: lineup=%s contract=%d seed=%d workers=%d",
			r.cfg.Games, r.cfg.Lineup, r.cfg.Contract, r.cfg.Seed, r.cfg.Workers)
	}

	start := time.Now()
	results := make([]*game.GameResult, r.cfg.Games)
	var (
		mu       sync.Mutex
		failed   int
		finished int
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.Workers)
	for i := 0; i < r.cfg.Games; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i // per-iteration copy (go.mod targets go1.21 loop semantics)
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := r.PlayOne(i)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !r.cfg.SkipFailed {
					return fmt.Errorf("game %d: %w", i, err)
				}
				failed++
				log.Printf("Skipping game %d: %v", i, err)
				return nil
			}
			results[i] = &result
			finished++
			if r.onResult != nil {
				r.onResult(i, result)
			}
			if r.cfg.Verbose && finished%100 == 0 {
				log.Printf("Completed %d/%d games", finished, r.cfg.Games)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	stats := Aggregate(results)
	stats.Failed = failed
	stats.Elapsed = time.Since(start)
	if secs := stats.Elapsed.Seconds(); secs > 0 {
		stats.GamesPerSecond = float64(stats.Games) / secs
	}
	if r.cfg.Verbose {
		log.Printf("Batch done: %s", stats)
	}
	return stats, nil
}

// Aggregate computes rates and averages over the non-nil results
func Aggregate(results []*game.GameResult) Stats {
	var (
		stats                                 Stats
		wins, made                            int
		leadScore, leadTricks, defenderTricks int
	)
	for _, r := range results {
		if r == nil {
			continue
		}
		stats.Games++
		if r.LeadScore > 0 {
			wins++
		}
		if r.MadeContract() {
			made++
		}
		leadScore += r.LeadScore
		leadTricks += r.LeadTricks
		defenderTricks += r.DefenderTricks
	}
	if stats.Games == 0 {
		return stats
	}

	n := float64(stats.Games)
	stats.LeadWinRate = float64(wins) / n
	stats.LeadContractRate = float64(made) / n
	stats.AvgLeadScore = float64(leadScore) / n
	stats.AvgLeadTricks = float64(leadTricks) / n
	stats.AvgDefenderTricks = float64(defenderTricks) / n
	return stats
}

func (s Stats) String() string {
	return fmt.Sprintf("games=%d failed=%d leadWin=%.1f%% made=%.1f%% avgScore=%.2f leadTricks=%.2f/13 defenderTricks=%.2f/13",
		s.Games, s.Failed, s.LeadWinRate*100, s.LeadContractRate*100, s.AvgLeadScore, s.AvgLeadTricks, s.AvgDefenderTricks)
}
