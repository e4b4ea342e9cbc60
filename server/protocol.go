package server

import (
	"bridgeplay/game"
	"bridgeplay/sim"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client -> Server messages
	MsgPlayGame MessageType = "playGame"
	MsgRunBatch MessageType = "runBatch"

	// Server -> Client messages
	MsgGameResult   MessageType = "gameResult"
	MsgBatchStarted MessageType = "batchStarted"
	MsgBatchStats   MessageType = "batchStats"
	MsgError        MessageType = "error"
)

// ClientMessage represents a message from client to server. Unset fields
// fall back to the server defaults.
type ClientMessage struct {
	Type     MessageType `json:"type"`
	Contract *int        `json:"contract,omitempty"`
	Lineup   string      `json:"lineup,omitempty"` // "rule" or "random,rule,random,high"
	Seed     *int64      `json:"seed,omitempty"`
	Games    *int        `json:"games,omitempty"` // runBatch only
	LeadRule string      `json:"leadRule,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type    MessageType   `json:"type"`
	BatchID string        `json:"batchId,omitempty"`
	Lineup  string        `json:"lineup,omitempty"`
	Game    *GameSummary  `json:"game,omitempty"`
	Stats   *sim.Stats    `json:"stats,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameSummary is a finished game as shown to spectators. Per-seat decision
// history stays on the server.
type GameSummary struct {
	ID             string       `json:"id"`
	Lineup         string       `json:"lineup"`
	Seed           int64        `json:"seed"`
	Contract       int          `json:"contract"`
	LeadTricks     int          `json:"leadTricks"`
	DefenderTricks int          `json:"defenderTricks"`
	LeadScore      int          `json:"leadScore"`
	DefenderScore  int          `json:"defenderScore"`
	MadeContract   bool         `json:"madeContract"`
	Tricks         []TrickState `json:"tricks"`
}

// TrickState is a completed trick in card notation
type TrickState struct {
	Leader string   `json:"leader"`
	Cards  []string `json:"cards"`
	Winner string   `json:"winner"`
}

// BuildGameSummary creates the spectator view of a result
func BuildGameSummary(result game.GameResult, lineup string, seed int64) *GameSummary {
	gs := &GameSummary{
		ID:             result.ID.String(),
		Lineup:         lineup,
		Seed:           seed,
		Contract:       result.Contract,
		LeadTricks:     result.LeadTricks,
		DefenderTricks: result.DefenderTricks,
		LeadScore:      result.LeadScore,
		DefenderScore:  result.DefenderScore,
		MadeContract:   result.MadeContract(),
		Tricks:         make([]TrickState, 0, len(result.Tricks)),
	}
	for _, t := range result.Tricks {
		ts := TrickState{
			Leader: t.Leader.String(),
			Cards:  make([]string, 0, len(t.Cards)),
			Winner: t.Winner.String(),
		}
		for _, c := range t.Cards {
			ts.Cards = append(ts.Cards, c.String())
		}
		gs.Tricks = append(gs.Tricks, ts)
	}
	return gs
}

// NewErrorMessage creates an error message
func NewErrorMessage(code, message string) ServerMessage {
	return ServerMessage{
		Type: MsgError,
		Error: &ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// NewGameResultMessage wraps a finished game
func NewGameResultMessage(summary *GameSummary) ServerMessage {
	return ServerMessage{Type: MsgGameResult, Game: summary}
}

// NewBatchStatsMessage wraps the aggregate of a finished batch
func NewBatchStatsMessage(batchID, lineup string, stats sim.Stats) ServerMessage {
	return ServerMessage{Type: MsgBatchStats, BatchID: batchID, Lineup: lineup, Stats: &stats}
}
