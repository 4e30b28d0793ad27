package memory

import "time"

// Clock supplies the current instant so the engine can be driven
// without real time passing.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler runs fn once after d. The returned func cancels the
// pending call; cancelling after the call ran is a no-op.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler defers fn to a timer goroutine. Embedders that require
// single-threaded delivery wrap it and marshal fn onto their own event
// loop.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
