package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgeplay/game"
)

func parse(t *testing.T, notation ...string) []game.Card {
	t.Helper()
	out := make([]game.Card, 0, len(notation))
	for _, n := range notation {
		c, err := game.ParseCard(n)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

// observe builds the observation a seat would get under the fixed order,
// where Defender1 leads every trick.
func observe(t *testing.T, seat game.Seat, hand, partner, played []string) game.PlayObservation {
	t.Helper()
	trick := game.Trick{Leader: game.Defender1, Cards: parse(t, played...)}
	require.Equal(t, seat, trick.ToAct(), "observation for a seat out of turn")
	h := parse(t, hand...)
	return game.PlayObservation{
		Seat:         seat,
		Hand:         h,
		PartnerHand:  parse(t, partner...),
		CurrentTrick: trick,
		Contract:     7,
		LegalActions: game.LegalActions(h, trick),
	}
}

func act(t *testing.T, obs game.PlayObservation) string {
	t.Helper()
	card, err := NewRuleBased(obs.Seat).Act(obs)
	require.NoError(t, err)
	require.True(t, obs.IsLegal(card), "policy returned illegal %s", card)
	return card.String()
}

func TestOpeningLead(t *testing.T) {
	tests := []struct {
		name    string
		hand    []string
		partner []string
		want    string
	}{
		{
			name:    "ace where dummy is short",
			hand:    []string{"AS", "KS", "QS", "2H", "3D"},
			partner: []string{"2C", "3C", "4H"},
			want:    "AS",
		},
		{
			name:    "skips ace where dummy is long",
			hand:    []string{"AH", "2C", "AS"},
			partner: []string{"KH", "QH", "JH", "2S"},
			want:    "AS",
		},
		{
			name:    "first ace when dummy is long everywhere",
			hand:    []string{"AH", "AS", "2C"},
			partner: []string{"KH", "QH", "JH", "KS", "QS", "JS"},
			want:    "AH",
		},
		{
			name:    "king from king-queen",
			hand:    []string{"2C", "QH", "9D", "KH"},
			partner: []string{"3C"},
			want:    "KH",
		},
		{
			name:    "highest card of the suit dummy is weakest in",
			hand:    []string{"2C", "5D", "9H", "3H"},
			partner: []string{"AC", "KC", "QC", "2D"},
			want:    "9H",
		},
		{
			name:    "earliest suit wins a tie",
			hand:    []string{"4D", "7S", "JD"},
			partner: []string{"2C"},
			want:    "JD",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := observe(t, game.Defender1, tt.hand, tt.partner, nil)
			assert.Equal(t, tt.want, act(t, obs))
		})
	}
}

func TestOpeningLeadWithoutVisibleHand(t *testing.T) {
	obs := observe(t, game.Defender1, []string{"3C", "QD", "5H"}, nil, nil)
	obs.PartnerHand = nil
	// Every suit scores the same, so the first suit in hand is led.
	assert.Equal(t, "3C", act(t, obs))
}

func TestDummyPlay(t *testing.T) {
	tests := []struct {
		name    string
		hand    []string
		partner []string
		played  []string
		want    string
	}{
		{
			name:    "highest beater when lead cannot win",
			hand:    []string{"2S", "JS", "KS", "3H"},
			partner: []string{"5S", "8S", "AH"},
			played:  []string{"9S"},
			want:    "KS",
		},
		{
			name:    "ducks when lead can win",
			hand:    []string{"2S", "JS", "KS", "3H"},
			partner: []string{"AS", "4C"},
			played:  []string{"9S"},
			want:    "2S",
		},
		{
			name:    "low when nothing beats",
			hand:    []string{"4S", "2S", "3H"},
			partner: []string{"5S"},
			played:  []string{"QS"},
			want:    "2S",
		},
		{
			name:    "discards from a suit lead holds three of",
			hand:    []string{"2H", "3H", "4D", "5C"},
			partner: []string{"KD", "QD", "JD", "AH"},
			played:  []string{"9S"},
			want:    "4D",
		},
		{
			name:    "spades outrank hearts for discards",
			hand:    []string{"2H", "3S", "4D"},
			partner: []string{"KH", "QH", "JH", "AS", "KS", "QS"},
			played:  []string{"9C"},
			want:    "3S",
		},
		{
			name:    "lowest discard otherwise",
			hand:    []string{"5H", "3D", "4C"},
			partner: []string{"KD", "AH"},
			played:  []string{"9S"},
			want:    "3D",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := observe(t, game.Dummy, tt.hand, tt.partner, tt.played)
			assert.Equal(t, tt.want, act(t, obs))
		})
	}
}

func TestSecondDefenderPlay(t *testing.T) {
	tests := []struct {
		name   string
		hand   []string
		played []string
		want   string
	}{
		{"partner winning ducks", []string{"AS", "3S", "2H"}, []string{"KS", "5S"}, "3S"},
		{"wins cheaply", []string{"AS", "QS", "3S"}, []string{"5S", "JS"}, "QS"},
		{"low when nothing beats", []string{"QS", "3S"}, []string{"5S", "KS"}, "3S"},
		{"void discards lowest", []string{"9H", "4D", "6C"}, []string{"5S", "KS"}, "4D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := observe(t, game.Defender2, tt.hand, []string{"2D"}, tt.played)
			assert.Equal(t, tt.want, act(t, obs))
		})
	}
}

func TestDeclarerPlay(t *testing.T) {
	tests := []struct {
		name   string
		hand   []string
		played []string
		want   string
	}{
		{"dummy winning ducks", []string{"AS", "2S"}, []string{"5S", "KS", "9S"}, "2S"},
		{"overtakes a defender", []string{"AS", "QS", "3S"}, []string{"5S", "2S", "JS"}, "QS"},
		{"discard off-suit", []string{"AH", "2D"}, []string{"5S", "2S", "JS"}, "2D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := observe(t, game.Lead, tt.hand, []string{"3D"}, tt.played)
			assert.Equal(t, tt.want, act(t, obs))
		})
	}
}

func TestRuleBasedNoLegalActions(t *testing.T) {
	_, err := NewRuleBased(game.Lead).Act(game.PlayObservation{Seat: game.Lead})
	assert.ErrorIs(t, err, ErrNoLegalActions)
}

func TestRuleBasedFullGames(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		policies, err := Uniform(NameRuleBased).Policies(seed)
		require.NoError(t, err)
		g, err := game.New(7, policies, game.WithSeed(seed))
		require.NoError(t, err)
		result, err := g.PlayGame()
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, game.TricksPerGame, result.LeadTricks+result.DefenderTricks)
	}
}

func TestRuleBasedUnderWinnerLeads(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		policies, err := Uniform(NameRuleBased).Policies(seed)
		require.NoError(t, err)
		g, err := game.New(7, policies, game.WithSeed(seed), game.WithLeadRule(game.WinnerLeads))
		require.NoError(t, err)
		_, err = g.PlayGame()
		require.NoError(t, err, "seed %d", seed)
	}
}
