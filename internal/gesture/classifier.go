// Package gesture disambiguates user input and routes engagement actions.
// Taps become single or double via an explicit two-state classifier; actions
// apply optimistic feed mutations that the caller confirms or reverts against
// server responses.
package gesture

import "time"

// DoubleTapWindow is how long a first tap waits for a second before it is
// classified as a single tap.
const DoubleTapWindow = 300 * time.Millisecond

// TapKind is the classification result.
type TapKind int

const (
	TapNone TapKind = iota
	TapSingle
	TapDouble
)

type classifierState int

const (
	stateIdle classifierState = iota
	stateAwaitingSecond
)

// Classifier is the two-state tap classifier. Not safe for concurrent use;
// it lives on the event loop like everything else here.
type Classifier struct {
	state classifierState
	first time.Time
	seq   int // invalidates expiry timers from abandoned windows
}

// Tap records a tap at the given time.
//
// Returns TapDouble when this tap completes a pair inside the window; the
// pending single is suppressed. Returns TapNone when this tap opens a new
// window - the caller must schedule Expire(seq) after DoubleTapWindow.
func (c *Classifier) Tap(now time.Time) (TapKind, int) {
	if c.state == stateAwaitingSecond && now.Sub(c.first) <= DoubleTapWindow {
		c.state = stateIdle
		c.seq++
		return TapDouble, c.seq
	}

	// Either idle, or the previous window lapsed without its timer having
	// fired yet; treat this tap as a fresh first tap.
	c.state = stateAwaitingSecond
	c.first = now
	c.seq++
	return TapNone, c.seq
}

// Expire resolves a pending window. Returns TapSingle if the sequence is
// still current and no second tap arrived; TapNone for stale timers.
func (c *Classifier) Expire(seq int) TapKind {
	if c.state != stateAwaitingSecond || seq != c.seq {
		return TapNone
	}
	c.state = stateIdle
	return TapSingle
}

// Pending reports whether a window is open.
func (c *Classifier) Pending() bool { return c.state == stateAwaitingSecond }
