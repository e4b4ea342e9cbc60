package game

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	DeckSize       = 52
	NumSeats       = 4
	HandSize       = 13
	TricksPerGame  = 13
	PointsPerTrick = 20
)

// Seat is a fixed role at the table. It never rotates during a game.
type Seat int

const (
	Defender1 Seat = iota
	Dummy
	Defender2
	Lead
)

func (s Seat) String() string {
	switch s {
	case Defender1:
		return "defender1"
	case Dummy:
		return "dummy"
	case Defender2:
		return "defender2"
	case Lead:
		return "lead"
	default:
		return fmt.Sprintf("seat(%d)", int(s))
	}
}

// AllSeats returns the seats in play order
func AllSeats() []Seat {
	return []Seat{Defender1, Dummy, Defender2, Lead}
}

// ParseSeat maps a seat name back to its Seat.
func ParseSeat(name string) (Seat, error) {
	for _, s := range AllSeats() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown seat %q", name)
}

// Valid reports whether s is one of the four seats.
func (s Seat) Valid() bool {
	return s >= Defender1 && s <= Lead
}

// Next returns the seat that plays after s
func (s Seat) Next() Seat {
	return (s + 1) % NumSeats
}

// Partner returns the other seat on the same team
func (s Seat) Partner() Seat {
	return (s + 2) % NumSeats
}

// Team returns the team a seat plays for
func (s Seat) Team() Team {
	if s == Dummy || s == Lead {
		return LeadTeam
	}
	return DefenderTeam
}

// Team is one of the two partnerships.
type Team int

const (
	LeadTeam Team = iota
	DefenderTeam
)

func (t Team) String() string {
	if t == LeadTeam {
		return "lead"
	}
	return "defender"
}

// Seats returns the members of the team
func (t Team) Seats() [2]Seat {
	if t == LeadTeam {
		return [2]Seat{Dummy, Lead}
	}
	return [2]Seat{Defender1, Defender2}
}

// Phase is the engine's lifecycle state
type Phase string

const (
	PhaseNotDealt Phase = "notDealt"
	PhaseInTrick  Phase = "inTrick"
	PhaseComplete Phase = "complete"
)

// LeadRule decides who leads each trick after the first.
type LeadRule int

const (
	// FixedOrder restarts every trick at Defender1.
	FixedOrder LeadRule = iota
	// WinnerLeads hands the lead to the previous trick's winner.
	WinnerLeads
)

func (r LeadRule) String() string {
	if r == WinnerLeads {
		return "winnerLeads"
	}
	return "fixedOrder"
}

// DummyExposure decides when the partner-visible hand appears in observations.
type DummyExposure int

const (
	ExposeAlways DummyExposure = iota
	ExposeAfterOpeningLead
)

// Trick is the in-progress round. Cards[i] was played by Leader+i.
type Trick struct {
	Leader Seat   `json:"leader"`
	Cards  []Card `json:"cards"`
}

// LedSuit returns the suit of the first card, if any has been played
func (t Trick) LedSuit() (Suit, bool) {
	if len(t.Cards) == 0 {
		return 0, false
	}
	return t.Cards[0].Suit, true
}

// SeatAt returns the seat that played (or will play) position i
func (t Trick) SeatAt(position int) Seat {
	return (t.Leader + Seat(position)) % NumSeats
}

// PositionOf returns the position the seat occupies in this trick
func (t Trick) PositionOf(seat Seat) int {
	return int((seat - t.Leader + NumSeats) % NumSeats)
}

// ToAct returns the seat whose turn it is
func (t Trick) ToAct() Seat {
	return t.SeatAt(len(t.Cards))
}

// Clone returns a copy that shares no memory with t
func (t Trick) Clone() Trick {
	return Trick{Leader: t.Leader, Cards: cloneCards(t.Cards)}
}

// CompletedTrick stores a finished trick with its winner
type CompletedTrick struct {
	Leader Seat   `json:"leader"`
	Cards  []Card `json:"cards"`
	Winner Seat   `json:"winner"`
}

// PlayedBy returns the card the seat contributed to the trick
func (ct CompletedTrick) PlayedBy(seat Seat) Card {
	return ct.Cards[Trick{Leader: ct.Leader}.PositionOf(seat)]
}

// SeatAt returns the seat that played position i
func (ct CompletedTrick) SeatAt(position int) Seat {
	return Trick{Leader: ct.Leader}.SeatAt(position)
}

func (ct CompletedTrick) clone() CompletedTrick {
	return CompletedTrick{Leader: ct.Leader, Cards: cloneCards(ct.Cards), Winner: ct.Winner}
}

// PlayObservation is the seat-scoped view handed to a policy.
// It is a fresh copy on every call; holding on to it never affects the game.
//
// PartnerHand is Lead's hand when Seat is Dummy and Dummy's hand otherwise.
// It is nil while the dummy is not yet exposed.
type PlayObservation struct {
	Seat          Seat             `json:"seat"`
	Hand          []Card           `json:"hand"`
	PartnerHand   []Card           `json:"partnerHand"`
	CurrentTrick  Trick            `json:"currentTrick"`
	TrickIndex    int              `json:"trickIndex"`
	TricksPlayed  []CompletedTrick `json:"tricksPlayed"`
	TeamTricksWon int              `json:"teamTricksWon"`
	Contract      int              `json:"contract"`
	LegalActions  []Card           `json:"legalActions"`
}

// IsLegal reports whether card is among the legal actions
func (o PlayObservation) IsLegal(card Card) bool {
	return containsCard(o.LegalActions, card)
}

func (o PlayObservation) clone() PlayObservation {
	out := o
	out.Hand = cloneCards(o.Hand)
	out.PartnerHand = cloneCards(o.PartnerHand)
	out.CurrentTrick = o.CurrentTrick.Clone()
	out.LegalActions = cloneCards(o.LegalActions)
	out.TricksPlayed = cloneTricks(o.TricksPlayed)
	return out
}

// Decision is one logged (observation, card) pair
type Decision struct {
	Observation PlayObservation `json:"observation"`
	Card        Card            `json:"card"`
}

// GameResult is the terminal summary of one game
type GameResult struct {
	ID             uuid.UUID            `json:"id"`
	Contract       int                  `json:"contract"`
	LeadTricks     int                  `json:"leadTricks"`
	DefenderTricks int                  `json:"defenderTricks"`
	LeadScore      int                  `json:"leadScore"`
	DefenderScore  int                  `json:"defenderScore"`
	TricksWon      [NumSeats]int        `json:"tricksWon"`
	Tricks         []CompletedTrick     `json:"tricks"`
	History        [NumSeats][]Decision `json:"history"`
}

// MadeContract reports whether the lead team took at least the contract
func (r GameResult) MadeContract() bool {
	return r.LeadTricks >= r.Contract
}

// Clone returns a deep copy
func (r GameResult) Clone() GameResult {
	out := r
	out.Tricks = cloneTricks(r.Tricks)
	for s := range r.History {
		if r.History[s] == nil {
			continue
		}
		out.History[s] = make([]Decision, len(r.History[s]))
		for i, d := range r.History[s] {
			out.History[s][i] = Decision{Observation: d.Observation.clone(), Card: d.Card}
		}
	}
	return out
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func cloneTricks(tricks []CompletedTrick) []CompletedTrick {
	if tricks == nil {
		return nil
	}
	out := make([]CompletedTrick, len(tricks))
	for i, t := range tricks {
		out[i] = t.clone()
	}
	return out
}

func containsCard(cards []Card, target Card) bool {
	return indexOfCard(cards, target) >= 0
}

func indexOfCard(cards []Card, target Card) int {
	for i, c := range cards {
		if c == target {
			return i
		}
	}
	return -1
}
