package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(t *testing.T, notation ...string) []Card {
	t.Helper()
	out := make([]Card, 0, len(notation))
	for _, n := range notation {
		c, err := ParseCard(n)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestLegalActions(t *testing.T) {
	hand := cards(t, "AS", "3H", "KH", "2C")

	t.Run("leading allows any card", func(t *testing.T) {
		legal := LegalActions(hand, Trick{Leader: Defender1})
		assert.Equal(t, hand, legal)
	})

	t.Run("must follow the led suit", func(t *testing.T) {
		trick := Trick{Leader: Defender1, Cards: cards(t, "9H")}
		legal := LegalActions(hand, trick)
		assert.Equal(t, cards(t, "3H", "KH"), legal)
		for _, c := range legal {
			assert.Equal(t, Hearts, c.Suit)
		}
	})

	t.Run("void in led suit may discard anything", func(t *testing.T) {
		trick := Trick{Leader: Defender1, Cards: cards(t, "9D", "JD")}
		assert.Equal(t, hand, LegalActions(hand, trick))
	})

	t.Run("result does not alias the hand", func(t *testing.T) {
		legal := LegalActions(hand, Trick{})
		legal[0] = NewCard(Diamonds, Two)
		assert.Equal(t, NewCard(Spades, Ace), hand[0])
	})

	t.Run("empty hand has no legal actions", func(t *testing.T) {
		assert.Empty(t, LegalActions(nil, Trick{Cards: cards(t, "2S")}))
	})
}

func TestResolveTrick(t *testing.T) {
	tests := []struct {
		name  string
		trick []string
		want  int
	}{
		{"leader holds", []string{"AS", "2S", "KS", "QS"}, 0},
		{"last card wins", []string{"2H", "3H", "4H", "5H"}, 3},
		{"off-suit ace never wins", []string{"2C", "AS", "AH", "AD"}, 0},
		{"highest follower wins", []string{"9D", "2D", "KD", "AC"}, 2},
		{"discards ignored", []string{"5S", "KH", "6S", "AD"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ResolveTrick(cards(t, tt.trick...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, pos)
		})
	}

	t.Run("incomplete trick is rejected", func(t *testing.T) {
		_, err := ResolveTrick(cards(t, "AS", "KS", "QS"))
		assert.ErrorIs(t, err, ErrIncompleteTrick)
	})
}

func TestWinningPosition(t *testing.T) {
	assert.Equal(t, -1, WinningPosition(nil))
	assert.Equal(t, 0, WinningPosition(cards(t, "8C")))
	assert.Equal(t, 1, WinningPosition(cards(t, "8C", "JC", "AH")))

	full := cards(t, "8C", "JC", "AH", "QC")
	pos, err := ResolveTrick(full)
	require.NoError(t, err)
	assert.Equal(t, WinningPosition(full), pos)
	assert.Equal(t, 3, pos)
}

func TestTrickPositions(t *testing.T) {
	trick := Trick{Leader: Defender2}
	assert.Equal(t, Defender2, trick.ToAct())
	assert.Equal(t, Lead, trick.SeatAt(1))
	assert.Equal(t, Defender1, trick.SeatAt(2))
	assert.Equal(t, 3, trick.PositionOf(Dummy))
	assert.Equal(t, 0, trick.PositionOf(Defender2))

	done := CompletedTrick{Leader: Defender2, Cards: cards(t, "2S", "3S", "AS", "4S"), Winner: Defender1}
	assert.Equal(t, Defender1, done.SeatAt(2))
	assert.Equal(t, Dummy, done.SeatAt(3))
	assert.Equal(t, NewCard(Spades, Ace), done.PlayedBy(done.SeatAt(2)))
}

func TestPartnerVisibleSeat(t *testing.T) {
	assert.Equal(t, Lead, PartnerVisibleSeat(Dummy))
	for _, s := range []Seat{Defender1, Defender2, Lead} {
		assert.Equal(t, Dummy, PartnerVisibleSeat(s))
	}
}

func TestSeatsAndTeams(t *testing.T) {
	assert.Equal(t, LeadTeam, Dummy.Team())
	assert.Equal(t, LeadTeam, Lead.Team())
	assert.Equal(t, DefenderTeam, Defender1.Team())
	assert.Equal(t, DefenderTeam, Defender2.Team())
	assert.Equal(t, Lead, Dummy.Partner())
	assert.Equal(t, Defender2, Defender1.Partner())
	assert.Equal(t, Defender1, Lead.Next())

	seat, err := ParseSeat("defender2")
	require.NoError(t, err)
	assert.Equal(t, Defender2, seat)
	_, err = ParseSeat("north")
	assert.Error(t, err)
}
