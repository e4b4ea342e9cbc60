package agent

import (
	"fmt"
	"math/rand"

	"bridgeplay/game"
)

// HighCard always plays its highest legal card
type HighCard struct{}

func (HighCard) Act(obs game.PlayObservation) (game.Card, error) {
	if len(obs.LegalActions) == 0 {
		return game.Card{}, fmt.Errorf("%w: %s", ErrNoLegalActions, obs.Seat)
	}
	return highest(obs.LegalActions), nil
}

// LowCard always plays its lowest legal card
type LowCard struct{}

func (LowCard) Act(obs game.PlayObservation) (game.Card, error) {
	if len(obs.LegalActions) == 0 {
		return game.Card{}, fmt.Errorf("%w: %s", ErrNoLegalActions, obs.Seat)
	}
	return lowest(obs.LegalActions), nil
}

// Random plays a uniformly random legal card from its own generator.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a random policy seeded for reproducible play
func NewRandom(seed int64) *Random {
	return &Random{rng: game.NewSeededRand(seed)}
}

func (r *Random) Act(obs game.PlayObservation) (game.Card, error) {
	if len(obs.LegalActions) == 0 {
		return game.Card{}, fmt.Errorf("%w: %s", ErrNoLegalActions, obs.Seat)
	}
	return obs.LegalActions[r.rng.Intn(len(obs.LegalActions))], nil
}
