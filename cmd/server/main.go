package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bridgeplay/agent"
	"bridgeplay/config"
	"bridgeplay/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	flag.IntVar(&cfg.Contract, "contract", cfg.Contract, "Default contract (tricks bid by the lead team)")
	flag.StringVar(&cfg.Lineup, "lineup", cfg.Lineup, "Default lineup: one policy or four comma-separated")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "Default games per batch")
	flag.IntVar(&cfg.MaxGames, "max-games", cfg.MaxGames, "Largest batch a client may request")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Games played in parallel per batch")
	flag.StringVar(&cfg.LeadRule, "lead-rule", cfg.LeadRule, "fixedOrder or winnerLeads")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	lineup, _ := agent.ParseLineup(cfg.Lineup)
	leadRule, _ := cfg.ParsedLeadRule()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub()
	gameServer := server.NewGameServer(ctx, hub, server.Defaults{
		Contract: cfg.Contract,
		Lineup:   lineup,
		Games:    cfg.Games,
		Workers:  cfg.Workers,
		MaxGames: cfg.MaxGames,
		LeadRule: leadRule,
	})

	// Start hub and game server in background
	go hub.Run(ctx)
	go gameServer.Run()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.Router(gameServer)}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("Starting bridge play server on http://localhost%s", srv.Addr)
	log.Printf("Defaults: contract=%d lineup=%s lead rule=%s", cfg.Contract, lineup, leadRule)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("ListenAndServe:", err)
	}
	gameServer.Wait()
}
