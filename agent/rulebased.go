package agent

import (
	"fmt"

	"bridgeplay/game"
)

// Dummy discards from the first of these suits where Lead holds three or more.
var dummyDiscardOrder = []game.Suit{game.Spades, game.Hearts, game.Diamonds, game.Clubs}

// strategy is the heuristic for one seat role
type strategy interface {
	choose(obs game.PlayObservation) game.Card
}

// RuleBased plays a fixed heuristic chosen by seat role. It only reads its
// observation and always returns one of the legal actions.
type RuleBased struct {
	seat     game.Seat
	strategy strategy
}

// NewRuleBased returns the rule-based policy for a seat
func NewRuleBased(seat game.Seat) *RuleBased {
	var s strategy
	switch seat {
	case game.Defender1:
		s = openingLeader{}
	case game.Dummy:
		s = dummyPlayer{}
	case game.Defender2:
		s = secondDefender{}
	default:
		s = declarer{}
	}
	return &RuleBased{seat: seat, strategy: s}
}

// Seat returns the role the policy was built for
func (p *RuleBased) Seat() game.Seat { return p.seat }

// Act implements game.Policy
func (p *RuleBased) Act(obs game.PlayObservation) (game.Card, error) {
	if len(obs.LegalActions) == 0 {
		return game.Card{}, fmt.Errorf("%w: %s", ErrNoLegalActions, obs.Seat)
	}
	if len(obs.CurrentTrick.Cards) == 0 {
		return chooseLead(obs), nil
	}
	return p.strategy.choose(obs), nil
}

// Defender1 leads every trick under the fixed order. If the lead ever passes
// elsewhere it plays the partner-aware follow.
type openingLeader struct{}

func (openingLeader) choose(obs game.PlayObservation) game.Card {
	return coverPartner(obs)
}

// Dummy plays second and sees Lead's hand.
type dummyPlayer struct{}

func (dummyPlayer) choose(obs game.PlayObservation) game.Card {
	legal := obs.LegalActions
	trick := obs.CurrentTrick
	led, _ := trick.LedSuit()

	following := ofSuit(legal, led)
	if len(following) == 0 {
		if len(obs.PartnerHand) > 0 {
			for _, suit := range dummyDiscardOrder {
				if len(ofSuit(obs.PartnerHand, suit)) < 3 {
					continue
				}
				if discards := ofSuit(legal, suit); len(discards) > 0 {
					return lowest(discards)
				}
			}
		}
		return lowest(legal)
	}

	winPos := game.WinningPosition(trick.Cards)
	winning := trick.Cards[winPos]
	partnerPos := trick.PositionOf(obs.Seat.Partner())
	partnerPlayed := partnerPos < len(trick.Cards)
	if partnerPlayed && partnerPos == winPos {
		return lowest(following)
	}

	partnerCanBeat := !partnerPlayed && len(above(ofSuit(obs.PartnerHand, led), winning.Rank)) > 0
	if partnerCanBeat {
		return lowest(following)
	}
	if beaters := above(following, winning.Rank); len(beaters) > 0 {
		// Two more cards follow; the highest beater is most likely to hold.
		return highest(beaters)
	}
	return lowest(following)
}

// Defender2 plays third.
type secondDefender struct{}

func (secondDefender) choose(obs game.PlayObservation) game.Card {
	return coverPartner(obs)
}

// Lead plays last and sees the whole trick.
type declarer struct{}

func (declarer) choose(obs game.PlayObservation) game.Card {
	return coverPartner(obs)
}

// coverPartner ducks when the partner already holds the trick, otherwise wins
// as cheaply as possible, otherwise plays low. Without the led suit it
// discards the lowest card.
func coverPartner(obs game.PlayObservation) game.Card {
	legal := obs.LegalActions
	trick := obs.CurrentTrick
	led, _ := trick.LedSuit()

	following := ofSuit(legal, led)
	if len(following) == 0 {
		return lowest(legal)
	}

	winPos := game.WinningPosition(trick.Cards)
	if partnerPos := trick.PositionOf(obs.Seat.Partner()); partnerPos < len(trick.Cards) && partnerPos == winPos {
		return lowest(following)
	}
	if beaters := above(following, trick.Cards[winPos].Rank); len(beaters) > 0 {
		return lowest(beaters)
	}
	return lowest(following)
}

// chooseLead picks an opening card: an Ace (preferring suits where the
// visible partner hand is short), then K from K-Q, then the highest card of
// the suit where the visible hand is weakest, then the highest card.
func chooseLead(obs game.PlayObservation) game.Card {
	legal := obs.LegalActions
	visible := obs.PartnerHand

	var aces []game.Card
	for _, c := range legal {
		if c.Rank == game.Ace {
			aces = append(aces, c)
		}
	}
	for _, ace := range aces {
		if len(ofSuit(visible, ace.Suit)) <= 2 {
			return ace
		}
	}
	if len(aces) > 0 {
		return aces[0]
	}

	suits := suitsInOrder(legal)
	for _, suit := range suits {
		cards := ofSuit(legal, suit)
		if hasRank(cards, game.King) && hasRank(cards, game.Queen) {
			for _, c := range cards {
				if c.Rank == game.King {
					return c
				}
			}
		}
	}

	bestScore := -1
	var bestSuit game.Suit
	found := false
	for _, suit := range suits {
		theirs := ofSuit(visible, suit)
		score := (4-len(theirs))*10 + (56 - rankSum(theirs))
		if score > bestScore {
			bestScore, bestSuit, found = score, suit, true
		}
	}
	if found {
		return highest(ofSuit(legal, bestSuit))
	}
	return highest(legal)
}
