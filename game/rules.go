package game

import "fmt"

// LegalActions returns the cards the holder of hand may play into trick.
// Leading allows any card. Following must match the led suit when possible,
// otherwise any card may be discarded. Hand order is preserved.
func LegalActions(hand []Card, trick Trick) []Card {
	led, ok := trick.LedSuit()
	if !ok {
		return cloneCards(hand)
	}

	var following []Card
	for _, c := range hand {
		if c.Suit == led {
			following = append(following, c)
		}
	}
	if len(following) > 0 {
		return following
	}
	return cloneCards(hand)
}

// ResolveTrick returns the winning position (0-3) of a complete trick.
// Only cards of the led suit can win; the highest of them takes the trick.
func ResolveTrick(cards []Card) (int, error) {
	if len(cards) != NumSeats {
		return 0, fmt.Errorf("%w: %d cards played, want %d", ErrIncompleteTrick, len(cards), NumSeats)
	}

	return WinningPosition(cards), nil
}

// WinningPosition returns the position currently holding a partial trick,
// or -1 when nothing has been played.
func WinningPosition(cards []Card) int {
	if len(cards) == 0 {
		return -1
	}
	led := cards[0].Suit
	best := 0
	for i := 1; i < len(cards); i++ {
		if cards[i].ValueIn(led) > cards[best].ValueIn(led) {
			best = i
		}
	}
	return best
}

// PartnerVisibleSeat returns whose hand the seat is shown: Dummy sees Lead,
// everyone else sees Dummy.
func PartnerVisibleSeat(seat Seat) Seat {
	if seat == Dummy {
		return Lead
	}
	return Dummy
}
