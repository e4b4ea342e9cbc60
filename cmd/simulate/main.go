package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"bridgeplay/agent"
	"bridgeplay/config"
	"bridgeplay/sim"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	compare := flag.Bool("compare", false, "Run the baseline lineup comparison")
	flag.IntVar(&cfg.Contract, "contract", cfg.Contract, "Contract (tricks bid by the lead team)")
	flag.StringVar(&cfg.Lineup, "lineup", cfg.Lineup, "One policy or four comma-separated")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "Games to play")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Batch seed")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Games played in parallel")
	flag.StringVar(&cfg.LeadRule, "lead-rule", cfg.LeadRule, "fixedOrder or winnerLeads")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	lineup, _ := agent.ParseLineup(cfg.Lineup)
	leadRule, _ := cfg.ParsedLeadRule()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	base := sim.Config{
		Contract:   cfg.Contract,
		Lineup:     lineup,
		Games:      cfg.Games,
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
		LeadRule:   leadRule,
		SkipFailed: true,
	}

	if !*compare {
		base.Verbose = true
		if _, err := sim.NewRunner(base, nil).Run(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	rows, err := sim.Compare(ctx, base, sim.BaselineLineups())
	if err != nil {
		log.Fatal(err)
	}
	printComparison(os.Stdout, rows)
}

func printComparison(w io.Writer, rows []sim.Comparison) {
	fmt.Fprintf(w, "%-32s %9s %9s %10s %10s %10s\n", "Configuration", "Win Rate", "Made", "Avg Score", "Lead Trk", "Def Trk")
	for _, row := range rows {
		s := row.Stats
		fmt.Fprintf(w, "%-32s %8.1f%% %8.1f%% %10.2f %10.2f %10.2f\n",
			row.Name, s.LeadWinRate*100, s.LeadContractRate*100, s.AvgLeadScore, s.AvgLeadTricks, s.AvgDefenderTricks)
	}
}
