package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"

	"bridgeplay/agent"
	"bridgeplay/game"
	"bridgeplay/sim"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Spectators may connect from any page
	},
}

// Router wires the HTTP API and the spectator WebSocket
func Router(gs *GameServer) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "spectators": gs.Hub.SpectatorCount()})
	})

	r.Get("/api/policies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, agent.Names())
	})

	r.Get("/api/results", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gs.Recent())
	})

	r.Post("/api/games", func(w http.ResponseWriter, r *http.Request) {
		msg, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		summary, err := gs.PlayGame(msg)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	r.Post("/api/batches", func(w http.ResponseWriter, r *http.Request) {
		msg, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		batchID, err := gs.StartBatch(msg)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"batchId": batchID})
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		if !gs.Hub.Join(NewSpectator(gs.Hub, conn)) {
			conn.Close()
		}
	})

	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	return handlers.LoggingHandler(os.Stdout, recovered)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (ClientMessage, bool) {
	var msg ClientMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, NewErrorMessage("bad_request", err.Error()))
		return ClientMessage{}, false
	}
	return msg, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "action_failed"
	switch {
	case errors.Is(err, game.ErrInvalidContract),
		errors.Is(err, agent.ErrUnknownPolicy),
		errors.Is(err, agent.ErrBadLineup),
		errors.Is(err, ErrBadLeadRule),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, sim.ErrNoGames):
		status = http.StatusBadRequest
		code = "bad_request"
	case errors.Is(err, game.ErrContractViolation):
		code = "contract_violation"
	case errors.Is(err, game.ErrInvariantViolation):
		code = "invariant_violation"
	}
	writeJSON(w, status, NewErrorMessage(code, err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
