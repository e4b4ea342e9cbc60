// Package agent holds the decision policies that drive seats in a game.
package agent

import (
	"errors"
	"fmt"
	"strings"

	"bridgeplay/game"
)

// Policy names accepted by New and ParseLineup
const (
	NameRuleBased = "rule"
	NameHighCard  = "high"
	NameLowCard   = "low"
	NameRandom    = "random"
)

var (
	ErrUnknownPolicy  = errors.New("unknown policy")
	ErrNoLegalActions = errors.New("no legal actions")
	ErrBadLineup      = errors.New("lineup needs one policy name or four comma-separated names")
)

// Names lists the registered policy names
func Names() []string {
	return []string{NameRuleBased, NameHighCard, NameLowCard, NameRandom}
}

// New builds the named policy for a seat. The seed only matters for
// policies that draw random numbers.
func New(name string, seat game.Seat, seed int64) (game.Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameRuleBased:
		return NewRuleBased(seat), nil
	case NameHighCard:
		return HighCard{}, nil
	case NameLowCard:
		return LowCard{}, nil
	case NameRandom:
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Lineup names the policy for each seat, in seat order
type Lineup [game.NumSeats]string

// Uniform seats the same policy everywhere
func Uniform(name string) Lineup {
	return Lineup{name, name, name, name}
}

// ParseLineup accepts "rule" or "random,rule,random,high".
func ParseLineup(s string) (Lineup, error) {
	parts := strings.Split(s, ",")
	var l Lineup
	switch len(parts) {
	case 1:
		l = Uniform(strings.TrimSpace(parts[0]))
	case game.NumSeats:
		for i, p := range parts {
			l[i] = strings.TrimSpace(p)
		}
	default:
		return Lineup{}, fmt.Errorf("%w: %q", ErrBadLineup, s)
	}
	if err := validate(l); err != nil {
		return Lineup{}, err
	}
	return l, nil
}

func validate(l Lineup) error {
	for _, name := range l {
		if _, err := New(name, game.Defender1, 0); err != nil {
			return err
		}
	}
	return nil
}

func (l Lineup) String() string {
	return strings.Join(l[:], ",")
}

// Policies builds one policy per seat. Seat i's random stream is derived
// from seed so seats never share a generator.
func (l Lineup) Policies(seed int64) ([]game.Policy, error) {
	out := make([]game.Policy, 0, game.NumSeats)
	for _, seat := range game.AllSeats() {
		p, err := New(l[seat], seat, seed*game.NumSeats+int64(seat))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", seat, err)
		}
		out = append(out, p)
	}
	return out, nil
}
