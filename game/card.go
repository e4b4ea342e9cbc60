package game

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mathrand "math/rand"
	"strings"
	"time"
)

// Suit represents a card suit. There is no trump and no suit ranking.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	return [...]string{"clubs", "diamonds", "hearts", "spades"}[s]
}

// Letter returns the one-letter suit code used in card notation.
func (s Suit) Letter() string {
	return [...]string{"C", "D", "H", "S"}[s]
}

// AllSuits returns all suits in deck order
func AllSuits() []Suit {
	return []Suit{Clubs, Diamonds, Hearts, Spades}
}

// Rank represents a card rank (2-14, where 11=J, 12=Q, 13=K, 14=A)
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case Jack:
		return "jack"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Ace:
		return "ace"
	default:
		return fmt.Sprintf("%d", r)
	}
}

// Letter returns the one-character rank code (2-9, T, J, Q, K, A).
func (r Rank) Letter() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return fmt.Sprintf("%d", r)
	}
}

// AllRanks returns all ranks in order (2-A)
func AllRanks() []Rank {
	return []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

// Card is an immutable playing card. Two cards are equal when suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String renders short notation, e.g. "AS" or "TC".
func (c Card) String() string {
	return c.Rank.Letter() + c.Suit.Letter()
}

// ID returns a readable identifier such as "ace_spades"
func (c Card) ID() string {
	return fmt.Sprintf("%s_%s", c.Rank.String(), c.Suit.String())
}

// ValueIn returns the card's strength in a trick led with the given suit:
// its rank when it follows the led suit, otherwise 0.
func (c Card) ValueIn(led Suit) int {
	if c.Suit != led {
		return 0
	}
	return int(c.Rank)
}

// ParseCard reads short notation ("AS", "TC", "10H", "2d").
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]
	if rankPart == "10" {
		rankPart = "T"
	}

	var suit Suit
	found := false
	for _, candidate := range AllSuits() {
		if candidate.Letter() == suitPart {
			suit, found = candidate, true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}
	for _, rank := range AllRanks() {
		if rank.Letter() == rankPart {
			return NewCard(suit, rank), nil
		}
	}
	return Card{}, fmt.Errorf("invalid rank in card %q", s)
}

// Deck represents a deck of cards
type Deck struct {
	Cards []Card
}

// NewDeck creates a standard 52-card deck, suit-major in AllSuits order
func NewDeck() *Deck {
	d := &Deck{Cards: make([]Card, 0, DeckSize)}
	for _, suit := range AllSuits() {
		for _, rank := range AllRanks() {
			d.Cards = append(d.Cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewSeededRand returns a generator for the given seed.
func NewSeededRand(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// NewUnseededRand returns a generator seeded from crypto/rand.
func NewUnseededRand() *mathrand.Rand {
	return NewSeededRand(seedFrom(rand.Reader))
}

// seedFrom reads a seed from r, falling back to the clock if r fails.
func seedFrom(r io.Reader) int64 {
	var seed int64
	if err := binary.Read(r, binary.LittleEndian, &seed); err != nil {
		return time.Now().UnixNano()
	}
	return seed
}

// Shuffle randomizes the deck order with the caller's generator.
// A nil generator falls back to an unseeded one.
func (d *Deck) Shuffle(rng *mathrand.Rand) {
	if rng == nil {
		rng = NewUnseededRand()
	}
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal removes and returns n cards from the top of the deck
// Returns a copy of the cards to prevent slice aliasing issues
func (d *Deck) Deal(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	dealt := make([]Card, n)
	copy(dealt, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return dealt
}

// Remaining returns how many cards are left
func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// Validate checks the deck holds each of the 52 cards exactly once.
func (d *Deck) Validate() error {
	return validateCardSet(d.Cards)
}

func validateCardSet(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("%w: %d cards, want %d", ErrInvalidDeck, len(cards), DeckSize)
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		if c.Suit < Clubs || c.Suit > Spades || c.Rank < Two || c.Rank > Ace {
			return fmt.Errorf("%w: bad card (suit %d, rank %d)", ErrInvalidDeck, int(c.Suit), int(c.Rank))
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidDeck, c)
		}
		seen[c] = true
	}
	return nil
}
