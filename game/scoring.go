package game

// ScoreResult contains the scoring breakdown for a game
type ScoreResult struct {
	Contract       int `json:"contract"`
	LeadTricks     int `json:"leadTricks"`     // Dummy + Lead
	DefenderTricks int `json:"defenderTricks"` // Defender1 + Defender2
	LeadScore      int `json:"leadScore"`
	DefenderScore  int `json:"defenderScore"`  // Always -LeadScore
}

// CalculateScore turns per-seat trick counts into zero-sum team scores.
// The lead team scores 20 points per trick above or below the contract.
func CalculateScore(tricksWon [NumSeats]int, contract int) ScoreResult {
	result := ScoreResult{
		Contract:       contract,
		LeadTricks:     tricksWon[Dummy] + tricksWon[Lead],
		DefenderTricks: tricksWon[Defender1] + tricksWon[Defender2],
	}
	result.LeadScore = (result.LeadTricks - contract) * PointsPerTrick
	result.DefenderScore = -result.LeadScore
	return result
}

// TeamTricks sums the tricks taken by both members of a team
func TeamTricks(tricksWon [NumSeats]int, team Team) int {
	total := 0
	for _, s := range team.Seats() {
		total += tricksWon[s]
	}
	return total
}
