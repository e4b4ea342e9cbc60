package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Common errors
var (
	// Input validation, reported by New before anything is dealt.
	ErrInvalidContract = errors.New("contract must be between 1 and 13 tricks")
	ErrPolicyCount     = errors.New("exactly one policy per seat is required")
	ErrMissingPolicy   = errors.New("missing policy")

	// A policy returned a card it may not play. Fatal for the game.
	ErrContractViolation = errors.New("policy contract violation")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrIllegalCard       = errors.New("card is not a legal action")

	// The engine reached a state it must never reach. Fatal for the game.
	ErrInvariantViolation = errors.New("engine invariant violation")
	ErrIncompleteTrick    = errors.New("trick needs exactly 4 cards")
	ErrInvalidDeck        = errors.New("deck must hold each of the 52 cards once")

	ErrNotDealt     = errors.New("cards have not been dealt")
	ErrAlreadyDealt = errors.New("cards have already been dealt")
	ErrGameOver     = errors.New("game is complete")
)

// Policy chooses a card for one seat. The returned card must be one of
// obs.LegalActions; anything else aborts the game.
type Policy interface {
	Act(obs PlayObservation) (Card, error)
}

// PolicyFunc adapts a plain function to Policy
type PolicyFunc func(obs PlayObservation) (Card, error)

// Act calls f(obs)
func (f PolicyFunc) Act(obs PlayObservation) (Card, error) {
	return f(obs)
}

// GameEndHook receives a private copy of the result once per completed game.
type GameEndHook func(result GameResult)

// Option configures a Game
type Option func(*Game)

// WithSeed makes the deal reproducible
func WithSeed(seed int64) Option {
	return func(g *Game) {
		g.rng = NewSeededRand(seed)
	}
}

// WithRand shuffles with a caller-owned generator. The generator must not be
// shared with another game that runs concurrently.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithLeadRule picks who leads tricks after the first
func WithLeadRule(rule LeadRule) Option {
	return func(g *Game) {
		g.leadRule = rule
	}
}

// WithDummyExposure picks when partner-visible hands appear in observations
func WithDummyExposure(exposure DummyExposure) Option {
	return func(g *Game) {
		g.exposure = exposure
	}
}

// WithGameEndHook registers a callback for learning collaborators
func WithGameEndHook(hook GameEndHook) Option {
	return func(g *Game) {
		g.onGameEnd = hook
	}
}

// WithID overrides the generated game identifier
func WithID(id uuid.UUID) Option {
	return func(g *Game) {
		g.id = id
	}
}

// Game runs one deal of thirteen tricks. It is not safe for concurrent use;
// independent games share nothing and may run in parallel.
type Game struct {
	id        uuid.UUID
	contract  int
	policies  [NumSeats]Policy
	rng       *rand.Rand
	leadRule  LeadRule
	exposure  DummyExposure
	onGameEnd GameEndHook

	phase      Phase
	hands      [NumSeats][]Card
	trick      Trick
	trickIndex int
	tricksWon  [NumSeats]int
	tricks     []CompletedTrick
	history    [NumSeats][]Decision
	result     *GameResult
	err        error
}

// New validates the contract and the policies (one per seat, in seat order)
// and returns an undealt game.
func New(contract int, policies []Policy, opts ...Option) (*Game, error) {
	if err := ValidateContract(contract); err != nil {
		return nil, err
	}
	if len(policies) != NumSeats {
		return nil, fmt.Errorf("%w: got %d", ErrPolicyCount, len(policies))
	}

	g := &Game{
		id:       uuid.New(),
		contract: contract,
		phase:    PhaseNotDealt,
	}
	for i, p := range policies {
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPolicy, Seat(i))
		}
		g.policies[i] = p
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = NewUnseededRand()
	}
	return g, nil
}

// ValidateContract rejects contracts outside 1..13 tricks
func ValidateContract(contract int) error {
	if contract < 1 || contract > TricksPerGame {
		return fmt.Errorf("%w: got %d", ErrInvalidContract, contract)
	}
	return nil
}

// ID returns the game identifier
func (g *Game) ID() uuid.UUID { return g.id }

// Contract returns the number of tricks the lead team targets
func (g *Game) Contract() int { return g.contract }

// Phase returns the lifecycle state
func (g *Game) Phase() Phase { return g.phase }

// TrickIndex returns the 0-based index of the trick being played
func (g *Game) TrickIndex() int { return g.trickIndex }

// TricksWon returns per-seat trick counts so far
func (g *Game) TricksWon() [NumSeats]int { return g.tricksWon }

// CurrentTrick returns a copy of the trick in progress
func (g *Game) CurrentTrick() Trick { return g.trick.Clone() }

// Hand returns a copy of a seat's remaining cards
func (g *Game) Hand(seat Seat) []Card { return cloneCards(g.hands[seat]) }

// ToAct returns the seat whose turn it is
func (g *Game) ToAct() Seat { return g.trick.ToAct() }

// Err returns the error that aborted the game, if any
func (g *Game) Err() error { return g.err }

// Deal shuffles a fresh deck with the game's generator and gives each seat a
// contiguous block of 13 cards in seat order.
func (g *Game) Deal() error {
	if g.phase != PhaseNotDealt {
		return ErrAlreadyDealt
	}

	deck := NewDeck()
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	deck.Shuffle(g.rng)

	var hands [NumSeats][]Card
	for _, seat := range AllSeats() {
		hands[seat] = deck.Deal(HandSize)
	}
	g.start(hands)
	return nil
}

// DealHands installs prepared hands instead of shuffling. Together the hands
// must hold each of the 52 cards exactly once, 13 per seat.
func (g *Game) DealHands(hands [NumSeats][]Card) error {
	if g.phase != PhaseNotDealt {
		return ErrAlreadyDealt
	}

	all := make([]Card, 0, DeckSize)
	for _, seat := range AllSeats() {
		if len(hands[seat]) != HandSize {
			return fmt.Errorf("%w: %s holds %d cards", ErrInvalidDeck, seat, len(hands[seat]))
		}
		all = append(all, hands[seat]...)
	}
	if err := validateCardSet(all); err != nil {
		return err
	}

	var own [NumSeats][]Card
	for s := range hands {
		own[s] = cloneCards(hands[s])
	}
	g.start(own)
	return nil
}

func (g *Game) start(hands [NumSeats][]Card) {
	g.hands = hands
	g.trick = Trick{Leader: Defender1, Cards: make([]Card, 0, NumSeats)}
	g.trickIndex = 0
	g.tricksWon = [NumSeats]int{}
	g.tricks = make([]CompletedTrick, 0, TricksPerGame)
	g.history = [NumSeats][]Decision{}
	g.result = nil
	g.err = nil
	g.phase = PhaseInTrick
}

// Observation projects the game onto what one seat may see.
func (g *Game) Observation(seat Seat) PlayObservation {
	obs := PlayObservation{
		Seat:          seat,
		Hand:          cloneCards(g.hands[seat]),
		CurrentTrick:  g.trick.Clone(),
		TrickIndex:    g.trickIndex,
		TricksPlayed:  cloneTricks(g.tricks),
		TeamTricksWon: TeamTricks(g.tricksWon, seat.Team()),
		Contract:      g.contract,
		LegalActions:  LegalActions(g.hands[seat], g.trick),
	}
	if g.partnerExposed() {
		obs.PartnerHand = cloneCards(g.hands[PartnerVisibleSeat(seat)])
		if obs.PartnerHand == nil {
			obs.PartnerHand = []Card{}
		}
	}
	return obs
}

func (g *Game) partnerExposed() bool {
	if g.exposure == ExposeAlways {
		return true
	}
	return g.trickIndex > 0 || len(g.trick.Cards) > 0
}

// PlayTurn asks the seat to act for one card and applies it. When the fourth
// card lands the trick is resolved, and after the thirteenth trick the game
// completes.
func (g *Game) PlayTurn() error {
	switch {
	case g.err != nil:
		return g.err
	case g.phase == PhaseNotDealt:
		return ErrNotDealt
	case g.phase == PhaseComplete:
		return ErrGameOver
	}

	seat := g.trick.ToAct()
	obs := g.Observation(seat)
	logged := obs.clone()

	card, err := g.policies[seat].Act(obs)
	if err != nil {
		return g.abort(fmt.Errorf("%s policy: %w", seat, err))
	}

	idx := indexOfCard(g.hands[seat], card)
	if idx < 0 {
		return g.abort(fmt.Errorf("%w: %w: %s played %s", ErrContractViolation, ErrCardNotInHand, seat, card))
	}
	if !containsCard(LegalActions(g.hands[seat], g.trick), card) {
		return g.abort(fmt.Errorf("%w: %w: %s played %s", ErrContractViolation, ErrIllegalCard, seat, card))
	}

	hand := g.hands[seat]
	g.hands[seat] = append(hand[:idx:idx], hand[idx+1:]...)
	g.trick.Cards = append(g.trick.Cards, card)
	g.history[seat] = append(g.history[seat], Decision{Observation: logged, Card: card})

	if len(g.trick.Cards) == NumSeats {
		return g.completeTrick()
	}
	return nil
}

func (g *Game) completeTrick() error {
	pos, err := ResolveTrick(g.trick.Cards)
	if err != nil {
		return g.abort(fmt.Errorf("%w: %w", ErrInvariantViolation, err))
	}
	winner := g.trick.SeatAt(pos)

	g.tricksWon[winner]++
	g.tricks = append(g.tricks, CompletedTrick{
		Leader: g.trick.Leader,
		Cards:  cloneCards(g.trick.Cards),
		Winner: winner,
	})
	g.trickIndex++

	if g.trickIndex == TricksPerGame {
		return g.finish()
	}

	next := Defender1
	if g.leadRule == WinnerLeads {
		next = winner
	}
	g.trick = Trick{Leader: next, Cards: make([]Card, 0, NumSeats)}
	return nil
}

func (g *Game) finish() error {
	total := 0
	for _, seat := range AllSeats() {
		total += g.tricksWon[seat]
		if len(g.hands[seat]) != 0 {
			return g.abort(fmt.Errorf("%w: %s still holds %d cards", ErrInvariantViolation, seat, len(g.hands[seat])))
		}
	}
	if total != TricksPerGame {
		return g.abort(fmt.Errorf("%w: %d tricks won, want %d", ErrInvariantViolation, total, TricksPerGame))
	}

	score := CalculateScore(g.tricksWon, g.contract)
	result := GameResult{
		ID:             g.id,
		Contract:       g.contract,
		LeadTricks:     score.LeadTricks,
		DefenderTricks: score.DefenderTricks,
		LeadScore:      score.LeadScore,
		DefenderScore:  score.DefenderScore,
		TricksWon:      g.tricksWon,
		Tricks:         g.tricks,
		History:        g.history,
	}
	g.result = &result
	g.trick = Trick{Leader: Defender1}
	g.phase = PhaseComplete

	if g.onGameEnd != nil {
		g.onGameEnd(result.Clone())
	}
	return nil
}

func (g *Game) abort(err error) error {
	g.err = err
	return err
}

// Result returns a copy of the final result once the game is complete
func (g *Game) Result() (GameResult, bool) {
	if g.result == nil {
		return GameResult{}, false
	}
	return g.result.Clone(), true
}

// Play runs turns until the game completes or a turn fails.
func (g *Game) Play() (GameResult, error) {
	for g.phase != PhaseComplete {
		if err := g.PlayTurn(); err != nil {
			return GameResult{}, err
		}
	}
	result, _ := g.Result()
	return result, nil
}

// PlayGame deals and plays a whole game
func (g *Game) PlayGame() (GameResult, error) {
	if err := g.Deal(); err != nil {
		return GameResult{}, err
	}
	return g.Play()
}
