package memory

import (
	"bytes"
	"encoding/gob"
	"time"
)

// DefaultMismatchDelay is how long a mismatched pair stays face up
// before flipping back when a scheduler drives resolution.
const DefaultMismatchDelay = 400 * time.Millisecond

type TurnState int

const (
	TurnIdle TurnState = iota
	TurnFirstSelected
	TurnResolving
)

func (s TurnState) String() string {
	switch s {
	case TurnFirstSelected:
		return "first_selected"
	case TurnResolving:
		return "resolving"
	default:
		return "idle"
	}
}

type Outcome int

const (
	ClickIgnored Outcome = iota
	FirstFlipped
	PairMatched
	PairMismatched
	GameWon
)

func (o Outcome) String() string {
	switch o {
	case FirstFlipped:
		return "first_flipped"
	case PairMatched:
		return "matched"
	case PairMismatched:
		return "mismatched"
	case GameWon:
		return "won"
	default:
		return "ignored"
	}
}

// Snapshot carries the derived display values after a mutation, so
// embedders read results directly instead of observing the game.
type Snapshot struct {
	Moves         int
	MatchesFound  int
	TotalPairs    int
	RemainingTime time.Duration
	Completed     bool
	Won           bool
	Lost          bool
}

// ClickResult reports what a click did. First and Second index into the
// card sequence and are -1 when no card is in that role.
type ClickResult struct {
	Outcome  Outcome
	First    int
	Second   int
	Snapshot Snapshot
}

// Match is the turn controller over a [Game]: it holds the transient
// pending-card reference and the resolving gate, and is the only place
// turn transitions happen. Not safe for concurrent use; callers
// serialize access the same way they serialize clicks and ticks.
type Match struct {
	Game      *Game
	FirstPick *int
	// PendingMismatch holds a mismatched pair waiting to be flipped
	// back; while set, the turn is resolving and clicks are ignored.
	PendingMismatch *[2]int

	clock         Clock
	scheduler     Scheduler
	mismatchDelay time.Duration
	cancelResolve func()
}

// NewMatch wraps a game with manual mismatch resolution: a mismatch
// click leaves the pair face up until ResolveMismatch is called.
func NewMatch(game *Game) *Match {
	return &Match{Game: game, clock: SystemClock{}}
}

// WithScheduling equips the controller with clock-driven time and
// scheduler-driven mismatch resolution after delay. Gob decoding drops
// the scheduling seam, so decoded controllers reattach it here.
func (m *Match) WithScheduling(clock Clock, scheduler Scheduler, delay time.Duration) *Match {
	m.clock = clock
	m.scheduler = scheduler
	m.mismatchDelay = delay
	return m
}

func (m *Match) Resolving() bool {
	return m.PendingMismatch != nil
}

func (m *Match) TurnState() TurnState {
	switch {
	case m.Resolving():
		return TurnResolving
	case m.FirstPick != nil:
		return TurnFirstSelected
	default:
		return TurnIdle
	}
}

func (m *Match) Snapshot() Snapshot {
	g := m.Game
	return Snapshot{
		Moves:         g.Moves,
		MatchesFound:  g.MatchesFound,
		TotalPairs:    g.TotalPairs(),
		RemainingTime: g.RemainingTime(),
		Completed:     g.Completed,
		Won:           g.Completed && g.Won,
		Lost:          g.Completed && !g.Won,
	}
}

// Click flips the card at index i and advances the turn state machine.
// Clicks are ignored, with no state change, when the game is over, time
// has run out, a mismatch is still resolving, the index is out of
// range, or the card is already face up or matched.
func (m *Match) Click(i int) ClickResult {
	ignored := ClickResult{Outcome: ClickIgnored, First: -1, Second: -1, Snapshot: m.Snapshot()}

	if m.Game.Completed || m.Game.TimeExpired() || m.Resolving() {
		return ignored
	}
	if i < 0 || i >= len(m.Game.Cards) {
		return ignored
	}
	card := m.Game.Cards[i]
	if card.Flipped || card.Matched {
		return ignored
	}

	card.Flip()

	if m.FirstPick == nil {
		pick := i
		m.FirstPick = &pick
		return ClickResult{Outcome: FirstFlipped, First: i, Second: -1, Snapshot: m.Snapshot()}
	}

	first := *m.FirstPick
	m.FirstPick = nil
	m.Game.Moves++

	if m.Game.Cards[first].Matches(card) {
		m.Game.Cards[first].SetMatched()
		card.SetMatched()
		m.Game.MatchesFound++

		outcome := PairMatched
		if m.Game.MatchesFound == m.Game.TotalPairs() {
			m.Game.Completed = true
			m.Game.Won = true
			outcome = GameWon
		}
		return ClickResult{Outcome: outcome, First: first, Second: i, Snapshot: m.Snapshot()}
	}

	m.PendingMismatch = &[2]int{first, i}
	if m.scheduler != nil {
		m.cancelResolve = m.scheduler.After(m.mismatchDelay, m.ResolveMismatch)
	}
	return ClickResult{Outcome: PairMismatched, First: first, Second: i, Snapshot: m.Snapshot()}
}

// ResolveMismatch flips a pending mismatched pair back face down and
// returns the turn to idle. No-op unless a mismatch is pending, and a
// completed game is never mutated, even by a late-firing scheduler.
func (m *Match) ResolveMismatch() {
	if m.PendingMismatch == nil || m.Game.Completed {
		return
	}
	m.Game.Cards[m.PendingMismatch[0]].Flip()
	m.Game.Cards[m.PendingMismatch[1]].Flip()
	m.PendingMismatch = nil
	m.cancelResolve = nil
}

// Tick advances elapsed time from the clock and applies the time limit:
// an expired, uncompleted game becomes a loss regardless of any pending
// turn. Returns the snapshot after the update.
func (m *Match) Tick() Snapshot {
	if !m.Game.Completed {
		m.Game.UpdateElapsed(m.clock.Now())
		if m.Game.TimeExpired() {
			m.Game.Completed = true
			m.Game.Won = false
			m.Cancel()
		}
	}
	return m.Snapshot()
}

// Forfeit ends an uncompleted game as a loss.
func (m *Match) Forfeit() Snapshot {
	if !m.Game.Completed {
		m.Game.UpdateElapsed(m.clock.Now())
		m.Game.Completed = true
		m.Game.Won = false
		m.Cancel()
	}
	return m.Snapshot()
}

// Cancel abandons a pending mismatch continuation without mutating card
// state, for embedders navigating away mid-game.
func (m *Match) Cancel() {
	if m.cancelResolve != nil {
		m.cancelResolve()
		m.cancelResolve = nil
	}
}

func DecodeMatch(buf []byte) (*Match, error) {
	m := &Match{clock: SystemClock{}}
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Match) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
