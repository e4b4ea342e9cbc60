package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Spectators only send small requests.
	maxMessageSize = 4096

	sendBuffer = 256

	// Frames replayed to a spectator when it joins.
	replayLimit = 20
)

// Spectator is one WebSocket connection watching the feed
type Spectator struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewSpectator wraps an upgraded connection
func NewSpectator(hub *Hub, conn *websocket.Conn) *Spectator {
	return &Spectator{hub: hub, conn: conn, send: make(chan []byte, sendBuffer)}
}

// Request pairs an inbound message with the spectator that sent it
type Request struct {
	From    *Spectator
	Message ClientMessage
}

// Hub fans finished games and batch statistics out to every spectator and
// keeps the latest frames so late joiners can catch up.
type Hub struct {
	Requests chan Request

	spectators map[*Spectator]bool
	replay     [][]byte
	broadcast  chan []byte
	register   chan *Spectator
	unregister chan *Spectator
	stopped    chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		Requests:   make(chan Request, sendBuffer),
		spectators: make(map[*Spectator]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Spectator),
		unregister: make(chan *Spectator),
		stopped:    make(chan struct{}),
	}
}

// Run owns the spectator set until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.spectators {
				h.drop(s)
			}
			h.mu.Unlock()
			return

		case s := <-h.register:
			h.mu.Lock()
			h.spectators[s] = true
			for _, frame := range h.replay {
				select {
				case s.send <- frame:
				default:
				}
			}
			h.mu.Unlock()

		case s := <-h.unregister:
			h.mu.Lock()
			h.drop(s)
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.mu.Lock()
			h.replay = append(h.replay, frame)
			if len(h.replay) > replayLimit {
				h.replay = h.replay[len(h.replay)-replayLimit:]
			}
			for s := range h.spectators {
				select {
				case s.send <- frame:
				default:
					// Slow spectator; drop it rather than stall the feed.
					h.drop(s)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held
func (h *Hub) drop(s *Spectator) {
	if h.spectators[s] {
		delete(h.spectators, s)
		close(s.send)
	}
}

// Join registers a spectator and starts its pumps
func (h *Hub) Join(s *Spectator) bool {
	select {
	case h.register <- s:
	case <-h.stopped:
		return false
	}
	go s.writePump()
	go s.readPump()
	return true
}

func (h *Hub) leave(s *Spectator) {
	select {
	case h.unregister <- s:
	case <-h.stopped:
	}
}

// SpectatorCount returns the number of connected spectators
func (h *Hub) SpectatorCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.spectators)
}

// Send queues a message for one spectator
func (h *Hub) Send(s *Spectator, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.spectators[s] {
		return
	}
	select {
	case s.send <- data:
	default:
		log.Printf("Spectator send buffer full")
	}
}

// BroadcastMessage sends a message to every spectator
func (h *Hub) BroadcastMessage(ctx context.Context, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.stopped:
	case <-ctx.Done():
	}
}

func (s *Spectator) readPump() {
	defer func() {
		s.hub.leave(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.hub.Send(s, NewErrorMessage("bad_message", err.Error()))
			continue
		}

		select {
		case s.hub.Requests <- Request{From: s, Message: msg}:
		case <-s.hub.stopped:
			return
		}
	}
}

func (s *Spectator) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
