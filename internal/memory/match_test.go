package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out a settable instant.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeScheduler captures deferred calls for manual firing.
type fakeScheduler struct {
	pending   []func()
	cancelled int
}

func (s *fakeScheduler) After(_ time.Duration, fn func()) func() {
	s.pending = append(s.pending, fn)
	return func() { s.cancelled++ }
}

func (s *fakeScheduler) fire() {
	for _, fn := range s.pending {
		fn()
	}
	s.pending = nil
}

// testMatch builds a deterministic 2x2 board: indexes 0 and 2 share a
// value, 1 and 3 share another.
func testMatch(t *testing.T) (*Match, *fakeClock, *fakeScheduler) {
	t.Helper()

	g, err := NewGame("ada", CategoryZodiac, 2, 2, time.Minute, testRand())
	require.NoError(t, err)
	g.Cards = []*Card{
		RestoreCard("Aries", "a1", false, false),
		RestoreCard("Taurus", "b1", false, false),
		RestoreCard("Aries", "a2", false, false),
		RestoreCard("Taurus", "b2", false, false),
	}

	clock := &fakeClock{now: time.Now()}
	sched := &fakeScheduler{}
	g.StartTime = clock.now

	m := NewMatch(g).WithScheduling(clock, sched, DefaultMismatchDelay)
	return m, clock, sched
}

func TestFirstClickFlipsAndSelects(t *testing.T) {
	t.Parallel()

	m, _, _ := testMatch(t)
	assert.Equal(t, TurnIdle, m.TurnState())

	res := m.Click(0)
	assert.Equal(t, FirstFlipped, res.Outcome)
	assert.Equal(t, 0, res.First)
	assert.Equal(t, TurnFirstSelected, m.TurnState())
	assert.True(t, m.Game.Cards[0].Flipped)
	assert.Equal(t, 0, res.Snapshot.Moves)
}

func TestMatchingPairResolvesImmediately(t *testing.T) {
	t.Parallel()

	m, _, _ := testMatch(t)
	m.Click(0)
	res := m.Click(2)

	assert.Equal(t, PairMatched, res.Outcome)
	assert.Equal(t, 1, res.Snapshot.Moves)
	assert.Equal(t, 1, res.Snapshot.MatchesFound)
	assert.True(t, m.Game.Cards[0].Matched)
	assert.True(t, m.Game.Cards[2].Matched)
	assert.Equal(t, TurnIdle, m.TurnState())
	assert.False(t, res.Snapshot.Completed)
}

func TestMismatchFlipsBackAfterDelay(t *testing.T) {
	t.Parallel()

	m, _, sched := testMatch(t)
	m.Click(0)
	res := m.Click(1)

	assert.Equal(t, PairMismatched, res.Outcome)
	assert.Equal(t, 1, res.Snapshot.Moves)
	assert.Equal(t, 0, res.Snapshot.MatchesFound)
	assert.Equal(t, TurnResolving, m.TurnState())
	assert.True(t, m.Game.Cards[0].Flipped)
	assert.True(t, m.Game.Cards[1].Flipped)

	// clicks are swallowed while the pair is face up
	assert.Equal(t, ClickIgnored, m.Click(2).Outcome)

	sched.fire()
	assert.Equal(t, TurnIdle, m.TurnState())
	assert.False(t, m.Game.Cards[0].Flipped)
	assert.False(t, m.Game.Cards[1].Flipped)
	assert.Equal(t, 1, m.Game.Moves)
}

func TestEveryCompletedTurnCountsOneMove(t *testing.T) {
	t.Parallel()

	m, _, sched := testMatch(t)

	m.Click(0)
	m.Click(1)
	sched.fire()
	m.Click(0)
	m.Click(2)

	assert.Equal(t, 2, m.Game.Moves)
	assert.Equal(t, 1, m.Game.MatchesFound)
}

func TestIgnoredClicks(t *testing.T) {
	t.Parallel()

	t.Run("same card twice", func(t *testing.T) {
		t.Parallel()
		m, _, _ := testMatch(t)
		m.Click(0)
		res := m.Click(0)
		assert.Equal(t, ClickIgnored, res.Outcome)
		assert.Equal(t, 0, m.Game.Moves)
		assert.Equal(t, TurnFirstSelected, m.TurnState())
	})

	t.Run("matched card", func(t *testing.T) {
		t.Parallel()
		m, _, _ := testMatch(t)
		m.Click(0)
		m.Click(2)
		assert.Equal(t, ClickIgnored, m.Click(0).Outcome)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		m, _, _ := testMatch(t)
		assert.Equal(t, ClickIgnored, m.Click(-1).Outcome)
		assert.Equal(t, ClickIgnored, m.Click(99).Outcome)
	})

	t.Run("after completion", func(t *testing.T) {
		t.Parallel()
		m, _, _ := testMatch(t)
		m.Click(0)
		m.Click(2)
		m.Click(1)
		m.Click(3)
		require.True(t, m.Game.Completed)
		assert.Equal(t, ClickIgnored, m.Click(0).Outcome)
	})

	t.Run("after expiry", func(t *testing.T) {
		t.Parallel()
		m, clock, _ := testMatch(t)
		clock.advance(2 * time.Minute)
		m.Game.UpdateElapsed(clock.Now())
		assert.Equal(t, ClickIgnored, m.Click(0).Outcome)
	})
}

func TestWinOnLastPair(t *testing.T) {
	t.Parallel()

	m, _, _ := testMatch(t)
	m.Click(0)
	m.Click(2)
	m.Click(1)
	res := m.Click(3)

	assert.Equal(t, GameWon, res.Outcome)
	assert.True(t, res.Snapshot.Completed)
	assert.True(t, res.Snapshot.Won)
	assert.False(t, res.Snapshot.Lost)
	assert.Equal(t, m.Game.TotalPairs(), res.Snapshot.MatchesFound)
}

func TestTickExpiryLosesTheGame(t *testing.T) {
	t.Parallel()

	m, clock, _ := testMatch(t)

	snap := m.Tick()
	assert.False(t, snap.Completed)

	clock.advance(time.Minute)
	snap = m.Tick()
	assert.True(t, snap.Completed)
	assert.True(t, snap.Lost)
	assert.False(t, snap.Won)
	assert.Equal(t, time.Duration(0), snap.RemainingTime)

	// completion happens exactly once; further ticks change nothing
	clock.advance(time.Minute)
	again := m.Tick()
	assert.Equal(t, snap.RemainingTime, again.RemainingTime)
	assert.True(t, again.Lost)
}

func TestTickExpiryCancelsPendingResolve(t *testing.T) {
	t.Parallel()

	m, clock, sched := testMatch(t)
	m.Click(0)
	m.Click(1)
	require.Equal(t, TurnResolving, m.TurnState())

	clock.advance(time.Minute)
	snap := m.Tick()
	assert.True(t, snap.Lost)
	assert.Equal(t, 1, sched.cancelled)

	// a callback that slipped past the cancel must not touch the board
	m.ResolveMismatch()
	assert.True(t, m.Game.Cards[0].Flipped)
	assert.True(t, m.Game.Cards[1].Flipped)
}

func TestForfeitLosesOnce(t *testing.T) {
	t.Parallel()

	m, _, _ := testMatch(t)
	snap := m.Forfeit()
	assert.True(t, snap.Completed)
	assert.True(t, snap.Lost)

	m.Click(0)
	m.Click(2)
	assert.Equal(t, 0, m.Game.MatchesFound)
}

func TestCancelAbandonsWithoutMutation(t *testing.T) {
	t.Parallel()

	m, _, sched := testMatch(t)
	m.Click(0)
	m.Click(1)
	m.Cancel()

	assert.Equal(t, 1, sched.cancelled)
	assert.True(t, m.Game.Cards[0].Flipped)
	assert.True(t, m.Game.Cards[1].Flipped)
	assert.Equal(t, TurnResolving, m.TurnState())
}

func TestManualResolutionWithoutScheduler(t *testing.T) {
	t.Parallel()

	g, err := NewGame("ada", CategoryZodiac, 2, 2, time.Minute, testRand())
	require.NoError(t, err)
	g.Cards = []*Card{
		RestoreCard("Aries", "a1", false, false),
		RestoreCard("Taurus", "b1", false, false),
		RestoreCard("Aries", "a2", false, false),
		RestoreCard("Taurus", "b2", false, false),
	}
	m := NewMatch(g)

	m.Click(0)
	res := m.Click(1)
	require.Equal(t, PairMismatched, res.Outcome)

	m.ResolveMismatch()
	assert.Equal(t, TurnIdle, m.TurnState())
	assert.False(t, g.Cards[0].Flipped)

	// resolving twice is harmless
	m.ResolveMismatch()
	assert.False(t, g.Cards[0].Flipped)
}

func TestMatchGobRoundTrip(t *testing.T) {
	t.Parallel()

	m, _, _ := testMatch(t)
	m.Click(0)

	b, err := m.Bytes()
	require.NoError(t, err)

	got, err := DecodeMatch(b)
	require.NoError(t, err)
	require.NotNil(t, got.FirstPick)
	assert.Equal(t, 0, *got.FirstPick)
	assert.Equal(t, TurnFirstSelected, got.TurnState())
	assert.Equal(t, m.Game.Player, got.Game.Player)

	// the restored controller keeps playing
	res := got.Click(2)
	assert.Equal(t, PairMatched, res.Outcome)
}
