// Package visibility determines which feed slot is dominant in the viewport
// and emits activation transitions. The tracker is the single event source
// for playback; nothing else decides what plays.
package visibility

// DominanceThreshold is the visible-area fraction a slot must exceed to
// become active. High on purpose: with snap scrolling a slot is either
// essentially fully visible or essentially not, so a high bar avoids
// flapping between adjacent slots mid-transition.
const DominanceThreshold = 0.75

// None marks "no slot" in a Transition.
const None = -1

// Transition is one activation change. Deactivated always applies before
// Activated so at most one slot is ever live.
type Transition struct {
	Deactivated int // None if no slot was active before
	Activated   int
}

// Tracker observes viewport geometry and slot extents. It only knows slot
// counts, not slot contents.
type Tracker struct {
	slotExtent    int // rows per slot
	viewport      int // visible rows
	slots         int
	active        int
	degraded      bool
	degradedFired bool
}

// New creates a tracker with no geometry. Call SetGeometry before Evaluate;
// a tracker without usable geometry degrades to activating slot 0 once.
func New() *Tracker {
	return &Tracker{active: None, degraded: true}
}

// SetGeometry updates the slot extent and viewport height in rows.
// Non-positive values put the tracker in degraded mode.
func (t *Tracker) SetGeometry(slotExtent, viewport int) {
	t.slotExtent = slotExtent
	t.viewport = viewport
	t.degraded = slotExtent <= 0 || viewport <= 0
}

// SetSlotCount tells the tracker how many slots exist.
func (t *Tracker) SetSlotCount(n int) {
	t.slots = n
}

// Active returns the currently active slot, or None.
func (t *Tracker) Active() int { return t.active }

// Degraded reports whether the tracker is running without usable geometry.
func (t *Tracker) Degraded() bool { return t.degraded }

// Evaluate computes the dominant slot for the given content offset and
// returns a transition if the dominant slot changed. The offset may be
// fractional: it is sampled from the scroll animation each frame.
//
// If no slot crosses the threshold (mid-fling, before snap settles), no
// transition is emitted and the previous slot stays active.
func (t *Tracker) Evaluate(offset float64) (Transition, bool) {
	if t.slots == 0 {
		return Transition{}, false
	}

	if t.degraded {
		// Static single-slot fallback: activate 0 once, then stay inert.
		if t.degradedFired {
			return Transition{}, false
		}
		t.degradedFired = true
		t.active = 0
		return Transition{Deactivated: None, Activated: 0}, true
	}

	dominant := t.dominantSlot(offset)
	if dominant == None || dominant == t.active {
		return Transition{}, false
	}

	tr := Transition{Deactivated: t.active, Activated: dominant}
	t.active = dominant
	return tr, true
}

// dominantSlot returns the slot whose visible fraction exceeds the
// threshold, or None.
func (t *Tracker) dominantSlot(offset float64) int {
	extent := float64(t.slotExtent)
	viewTop := offset
	viewBottom := offset + float64(t.viewport)

	// Only slots overlapping the viewport are candidates.
	first := int(viewTop / extent)
	if first < 0 {
		first = 0
	}
	last := int(viewBottom / extent)
	if last >= t.slots {
		last = t.slots - 1
	}

	best := None
	bestFrac := 0.0
	for i := first; i <= last; i++ {
		top := float64(i) * extent
		bottom := top + extent
		visible := min(bottom, viewBottom) - max(top, viewTop)
		if visible <= 0 {
			continue
		}
		frac := visible / extent
		if frac > bestFrac {
			bestFrac = frac
			best = i
		}
	}

	if bestFrac > DominanceThreshold {
		return best
	}
	return None
}
