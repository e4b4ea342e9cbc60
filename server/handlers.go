package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"bridgeplay/agent"
	"bridgeplay/game"
	"bridgeplay/sim"
)

const recentLimit = 50

var (
	ErrBatchTooLarge = errors.New("batch exceeds the configured game limit")
	ErrBadLeadRule   = errors.New("lead rule must be fixedOrder or winnerLeads")
)

// Defaults fill in anything a request leaves out
type Defaults struct {
	Contract int
	Lineup   agent.Lineup
	Games    int
	Workers  int
	MaxGames int
	LeadRule game.LeadRule
}

// GameServer plays games on request and publishes the outcomes to the hub
type GameServer struct {
	Hub      *Hub
	Defaults Defaults
	ctx      context.Context
	mu       sync.Mutex
	recent   []*GameSummary
	batches  sync.WaitGroup
}

// NewGameServer creates a new game server
func NewGameServer(ctx context.Context, hub *Hub, defaults Defaults) *GameServer {
	return &GameServer{
		Hub:      hub,
		Defaults: defaults,
		ctx:      ctx,
	}
}

// Run starts processing incoming messages
func (gs *GameServer) Run() {
	for {
		select {
		case <-gs.ctx.Done():
			return
		case req := <-gs.Hub.Requests:
			gs.HandleMessage(req.From, req.Message)
		}
	}
}

// HandleMessage routes a message to the appropriate handler
func (gs *GameServer) HandleMessage(from *Spectator, msg ClientMessage) {
	var err error

	switch msg.Type {
	case MsgPlayGame:
		_, err = gs.PlayGame(msg)
	case MsgRunBatch:
		_, err = gs.StartBatch(msg)
	default:
		gs.Hub.Send(from, NewErrorMessage("unknown_message", "Unknown message type"))
		return
	}

	if err != nil {
		gs.Hub.Send(from, NewErrorMessage("action_failed", err.Error()))
	}
}

// GameRequest is a resolved request with defaults applied
type GameRequest struct {
	Contract int
	Lineup   agent.Lineup
	Seed     int64
	Games    int
	LeadRule game.LeadRule
}

func (gs *GameServer) resolve(msg ClientMessage) (GameRequest, error) {
	req := GameRequest{
		Contract: gs.Defaults.Contract,
		Lineup:   gs.Defaults.Lineup,
		Seed:     game.NewUnseededRand().Int63(),
		Games:    gs.Defaults.Games,
		LeadRule: gs.Defaults.LeadRule,
	}
	if msg.Contract != nil {
		req.Contract = *msg.Contract
	}
	if msg.Lineup != "" {
		lineup, err := agent.ParseLineup(msg.Lineup)
		if err != nil {
			return GameRequest{}, err
		}
		req.Lineup = lineup
	}
	if msg.Seed != nil {
		req.Seed = *msg.Seed
	}
	if msg.Games != nil {
		req.Games = *msg.Games
	}
	switch msg.LeadRule {
	case "":
	case game.FixedOrder.String():
		req.LeadRule = game.FixedOrder
	case game.WinnerLeads.String():
		req.LeadRule = game.WinnerLeads
	default:
		return GameRequest{}, fmt.Errorf("%w: %q", ErrBadLeadRule, msg.LeadRule)
	}
	return req, nil
}

// PlayGame plays one game synchronously and broadcasts its summary
func (gs *GameServer) PlayGame(msg ClientMessage) (*GameSummary, error) {
	req, err := gs.resolve(msg)
	if err != nil {
		return nil, err
	}

	policies, err := req.Lineup.Policies(req.Seed)
	if err != nil {
		return nil, err
	}
	g, err := game.New(req.Contract, policies,
		game.WithSeed(req.Seed),
		game.WithLeadRule(req.LeadRule),
	)
	if err != nil {
		return nil, err
	}
	result, err := g.PlayGame()
	if err != nil {
		return nil, err
	}

	summary := BuildGameSummary(result, req.Lineup.String(), req.Seed)
	gs.remember(summary)
	log.Printf("Game %s: lineup=%s lead=%d defenders=%d score=%d", summary.ID, summary.Lineup, summary.LeadTricks, summary.DefenderTricks, summary.LeadScore)
	gs.Hub.BroadcastMessage(gs.ctx, NewGameResultMessage(summary))
	return summary, nil
}

// StartBatch launches a batch in the background and returns its ID. Stats are
// broadcast when it finishes.
func (gs *GameServer) StartBatch(msg ClientMessage) (string, error) {
	req, err := gs.resolve(msg)
	if err != nil {
		return "", err
	}
	if req.Games < 1 {
		return "", sim.ErrNoGames
	}
	if gs.Defaults.MaxGames > 0 && req.Games > gs.Defaults.MaxGames {
		return "", fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, req.Games, gs.Defaults.MaxGames)
	}
	if err := game.ValidateContract(req.Contract); err != nil {
		return "", err
	}

	batchID := uuid.NewString()
	cfg := sim.Config{
		Contract:   req.Contract,
		Lineup:     req.Lineup,
		Games:      req.Games,
		Seed:       req.Seed,
		Workers:    gs.Defaults.Workers,
		LeadRule:   req.LeadRule,
		SkipFailed: true,
	}
	gs.Hub.BroadcastMessage(gs.ctx, ServerMessage{Type: MsgBatchStarted, BatchID: batchID, Lineup: req.Lineup.String()})

	gs.batches.Add(1)
	go func() {
		defer gs.batches.Done()
		stats, err := sim.NewRunner(cfg, nil).Run(gs.ctx)
		if err != nil {
			log.Printf("Batch %s failed: %v", batchID, err)
			gs.Hub.BroadcastMessage(gs.ctx, NewErrorMessage("batch_failed", err.Error()))
			return
		}
		log.Printf("Batch %s: %s", batchID, stats)
		gs.Hub.BroadcastMessage(gs.ctx, NewBatchStatsMessage(batchID, req.Lineup.String(), stats))
	}()
	return batchID, nil
}

// Wait blocks until background batches have finished
func (gs *GameServer) Wait() {
	gs.batches.Wait()
}

func (gs *GameServer) remember(summary *GameSummary) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.recent = append(gs.recent, summary)
	if len(gs.recent) > recentLimit {
		gs.recent = gs.recent[len(gs.recent)-recentLimit:]
	}
}

// Recent returns the latest game summaries, newest last
func (gs *GameServer) Recent() []*GameSummary {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	out := make([]*GameSummary, len(gs.recent))
	copy(out, gs.recent)
	return out
}
