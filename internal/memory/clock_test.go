package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerSchedulerFires(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{})
	TimerScheduler{}.After(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never fired")
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{})
	cancel := TimerScheduler{}.After(50*time.Millisecond, func() { close(fired) })
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(100 * time.Millisecond):
	}
}

// A scheduler-equipped controller flips a mismatched pair back on its
// own once the delay elapses.
func TestScheduledMismatchResolution(t *testing.T) {
	t.Parallel()

	g, err := NewGame("ada", CategoryZodiac, 2, 2, time.Minute, testRand())
	require.NoError(t, err)
	g.Cards = []*Card{
		RestoreCard("Aries", "a1", false, false),
		RestoreCard("Taurus", "b1", false, false),
		RestoreCard("Aries", "a2", false, false),
		RestoreCard("Taurus", "b2", false, false),
	}

	var mu sync.Mutex
	m := NewMatch(g).WithScheduling(SystemClock{}, lockedScheduler{mu: &mu}, time.Millisecond)

	mu.Lock()
	m.Click(0)
	res := m.Click(1)
	require.Equal(t, PairMismatched, res.Outcome)
	mu.Unlock()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return m.TurnState() == TurnIdle && !g.Cards[0].Flipped && !g.Cards[1].Flipped
	}, time.Second, 5*time.Millisecond)
}

// lockedScheduler marshals timer callbacks under a mutex the way a
// connection event loop does.
type lockedScheduler struct {
	mu *sync.Mutex
}

func (s lockedScheduler) After(d time.Duration, fn func()) func() {
	return TimerScheduler{}.After(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn()
	})
}
