// Package playback owns the mapping from feed position to media handle and
// enforces the one-playing-handle rule. Activation transitions come from the
// visibility tracker; nothing else may start or stop playback.
package playback

import "time"

// Lookahead is how many upcoming positions are eagerly prepared on
// activation. Bounded to cap bandwidth and spool usage.
const Lookahead = 2

// State is the per-position playback state.
type State int

const (
	Idle State = iota
	Buffering
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Buffering:
		return "buffering"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// active sentinel for "no position".
const noActive = -1

// handle tracks one position's media resource.
type handle struct {
	state     State
	prepared  bool // media spooled and ready to start
	preparing bool // prepare request in flight
	rejected  bool // play attempt rejected; show paused affordance, no retry
	playhead  time.Duration
	spoolPath string
}

// ActivateResult tells the caller what asynchronous work an activation
// requires. The controller never does I/O itself.
type ActivateResult struct {
	Deactivated int   // previous position, noActive sentinel -1 if none
	Prepare     []int // positions needing media preparation (includes p if unprepared)
	NeedRefill  bool  // activation reached the last loaded position
}

// Controller is the sole writer of playback state.
type Controller struct {
	handles map[int]*handle
	active  int
	total   int // loaded positions
	muted   bool
	loop    bool

	refillInFlight bool
	exhausted      bool // last refill returned zero items
}

// NewController creates a controller over an empty feed. Playback loops by
// default.
func NewController() *Controller {
	return &Controller{
		handles: make(map[int]*handle),
		active:  noActive,
		loop:    true,
	}
}

// SetLoop controls whether a clip restarts at its end or pauses there.
func (c *Controller) SetLoop(loop bool) { c.loop = loop }

func (c *Controller) handleFor(p int) *handle {
	h, ok := c.handles[p]
	if !ok {
		h = &handle{}
		c.handles[p] = h
	}
	return h
}

// SetTotal updates the number of loaded positions. Growth clears the
// exhausted latch so forward navigation works again.
func (c *Controller) SetTotal(n int) {
	if n > c.total {
		c.exhausted = false
	}
	c.total = n
}

// Total returns the number of loaded positions.
func (c *Controller) Total() int { return c.total }

// Active returns the active position, or -1.
func (c *Controller) Active() int { return c.active }

// Muted reports the global mute state.
func (c *Controller) Muted() bool { return c.muted }

// ToggleMute flips the global mute state.
func (c *Controller) ToggleMute() bool {
	c.muted = !c.muted
	return c.muted
}

// State returns the playback state at a position.
func (c *Controller) State(p int) State {
	if h, ok := c.handles[p]; ok {
		return h.state
	}
	return Idle
}

// Prepared reports whether a position's media is ready to start.
func (c *Controller) Prepared(p int) bool {
	h, ok := c.handles[p]
	return ok && h.prepared
}

// PlayingPosition returns the position currently playing, or -1. There is
// never more than one.
func (c *Controller) PlayingPosition() int {
	if c.active != noActive && c.handles[c.active] != nil && c.handles[c.active].state == Playing {
		return c.active
	}
	return noActive
}

// Activate makes p the active position: deactivates the previous position
// first, starts playback if the media is prepared, otherwise buffers.
// Returns the async work the caller must dispatch.
func (c *Controller) Activate(p int) ActivateResult {
	res := ActivateResult{Deactivated: noActive}
	if p < 0 || p >= c.total {
		return res
	}

	// Deactivate-old strictly before activate-new: the one-playing-handle
	// invariant must hold even within this call.
	if c.active != noActive && c.active != p {
		c.deactivate(c.active)
		res.Deactivated = c.active
	}
	c.active = p

	h := c.handleFor(p)
	if h.prepared {
		h.state = Playing
	} else if h.state != Buffering {
		h.state = Buffering
	}

	res.Prepare = c.prepareTargets(p)
	res.NeedRefill = c.maybeRefill(p)
	return res
}

// prepareTargets returns {p, p+1, p+2} clipped to the loaded range, minus
// positions already prepared or in flight. Marks them as preparing so a
// second activation does not duplicate the work.
func (c *Controller) prepareTargets(p int) []int {
	var targets []int
	for i := p; i <= p+Lookahead && i < c.total; i++ {
		h := c.handleFor(i)
		if h.prepared || h.preparing {
			continue
		}
		h.preparing = true
		targets = append(targets, i)
	}
	return targets
}

// maybeRefill reports whether activating p should trigger a fetch of more
// items. At most one refill is in flight, and an exhausted feed stays quiet
// until new items arrive.
func (c *Controller) maybeRefill(p int) bool {
	if p != c.total-1 || c.refillInFlight || c.exhausted {
		return false
	}
	c.refillInFlight = true
	return true
}

// RefillResolved records the outcome of a refill. Zero added items marks the
// feed exhausted: a terminal steady state, not an error.
func (c *Controller) RefillResolved(added int) {
	c.refillInFlight = false
	if added == 0 {
		c.exhausted = true
		return
	}
	c.SetTotal(c.total + added)
}

// RefillFailed records a refill that errored. Unlike an empty refill this is
// transient: reaching the last position again may try once more.
func (c *Controller) RefillFailed() {
	c.refillInFlight = false
}

// Exhausted reports whether the last refill came back empty.
func (c *Controller) Exhausted() bool { return c.exhausted }

// Deactivate pauses and rewinds the position. Public for the "navigating
// away" case (comments view); visibility transitions go through Activate.
func (c *Controller) Deactivate(p int) {
	if p == c.active {
		c.active = noActive
	}
	c.deactivate(p)
}

// deactivate resets a handle to Idle with the playhead at zero. A
// deactivated video must not keep consuming time or resume mid-point later.
func (c *Controller) deactivate(p int) {
	h, ok := c.handles[p]
	if !ok {
		return
	}
	h.state = Idle
	h.playhead = 0
	h.rejected = false
}

// MediaReady records that a position's media finished preparing. If the
// position is active and buffering, playback starts; otherwise the handle is
// just marked prepared - a stale prefetch result never auto-plays.
func (c *Controller) MediaReady(p int, spoolPath string) {
	h := c.handleFor(p)
	h.prepared = true
	h.preparing = false
	h.spoolPath = spoolPath
	if p == c.active && h.state == Buffering {
		h.state = Playing
	}
}

// MediaFailed records a failed prepare. An active position falls back to the
// paused affordance rather than retrying in a loop.
func (c *Controller) MediaFailed(p int) {
	h := c.handleFor(p)
	h.preparing = false
	if p == c.active {
		h.state = Paused
		h.rejected = true
	}
}

// PlayRejected records a refused play attempt on the active position
// (the autoplay-restriction case). Paused affordance, no retry.
func (c *Controller) PlayRejected(p int) {
	if p != c.active {
		return
	}
	h := c.handleFor(p)
	h.state = Paused
	h.rejected = true
}

// Rejected reports whether the position is paused due to a refused play.
func (c *Controller) Rejected(p int) bool {
	h, ok := c.handles[p]
	return ok && h.rejected
}

// TogglePlay flips Playing/Paused on the active position only. Acting on a
// non-active handle is a no-op: only one handle is meaningfully live.
func (c *Controller) TogglePlay(p int) bool {
	if p != c.active {
		return false
	}
	h := c.handleFor(p)
	switch h.state {
	case Playing:
		h.state = Paused
	case Paused:
		h.state = Playing
		h.rejected = false
	default:
		return false
	}
	return true
}

// Advance steps the playhead of the playing position. Called from the
// animation frame; at the clip duration the playhead loops back to zero, or
// pauses there when looping is off.
func (c *Controller) Advance(delta, duration time.Duration) time.Duration {
	p := c.PlayingPosition()
	if p == noActive {
		return 0
	}
	h := c.handles[p]
	h.playhead += delta
	if duration > 0 && h.playhead >= duration {
		if c.loop {
			h.playhead = h.playhead % duration
		} else {
			h.playhead = duration
			h.state = Paused
		}
	}
	return h.playhead
}

// Playhead returns the playhead of a position.
func (c *Controller) Playhead(p int) time.Duration {
	if h, ok := c.handles[p]; ok {
		return h.playhead
	}
	return 0
}

// SpoolPath returns the prepared media path for a position, if any.
func (c *Controller) SpoolPath(p int) string {
	if h, ok := c.handles[p]; ok {
		return h.spoolPath
	}
	return ""
}

// PreparedSet returns the prepared positions, for inspection.
func (c *Controller) PreparedSet() map[int]bool {
	out := make(map[int]bool)
	for p, h := range c.handles {
		if h.prepared {
			out[p] = true
		}
	}
	return out
}
