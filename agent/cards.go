package agent

import "bridgeplay/game"

// Ties in lowest/highest go to the earliest card, so choices depend only on
// the order the engine hands cards out.

func lowest(cards []game.Card) game.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best
}

func highest(cards []game.Card) game.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank > best.Rank {
			best = c
		}
	}
	return best
}

func ofSuit(cards []game.Card, suit game.Suit) []game.Card {
	var out []game.Card
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func above(cards []game.Card, rank game.Rank) []game.Card {
	var out []game.Card
	for _, c := range cards {
		if c.Rank > rank {
			out = append(out, c)
		}
	}
	return out
}

// suitsInOrder lists suits by first appearance in cards
func suitsInOrder(cards []game.Card) []game.Suit {
	var out []game.Suit
	seen := map[game.Suit]bool{}
	for _, c := range cards {
		if !seen[c.Suit] {
			seen[c.Suit] = true
			out = append(out, c.Suit)
		}
	}
	return out
}

func hasRank(cards []game.Card, rank game.Rank) bool {
	for _, c := range cards {
		if c.Rank == rank {
			return true
		}
	}
	return false
}

func rankSum(cards []game.Card) int {
	total := 0
	for _, c := range cards {
		total += int(c.Rank)
	}
	return total
}
