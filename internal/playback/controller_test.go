package playback

import (
	"testing"
	"time"
)

// prepareAll simulates the media layer finishing every requested prepare.
func prepareAll(c *Controller, targets []int) {
	for _, p := range targets {
		c.MediaReady(p, "/tmp/spool")
	}
}

func TestActivatePlaysWhenPrepared(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	res := c.Activate(0)
	if c.State(0) != Buffering {
		t.Fatalf("unprepared activation: state = %v, want buffering", c.State(0))
	}

	prepareAll(c, res.Prepare)
	if c.State(0) != Playing {
		t.Errorf("after media ready: state = %v, want playing", c.State(0))
	}
	if c.PlayingPosition() != 0 {
		t.Errorf("PlayingPosition() = %d, want 0", c.PlayingPosition())
	}
}

func TestSinglePlayingInvariant(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	// Drive an arbitrary activation sequence; after every step at most one
	// position may be playing.
	seq := []int{0, 1, 2, 1, 0, 3, 4, 2}
	for _, p := range seq {
		res := c.Activate(p)
		prepareAll(c, res.Prepare)

		playing := 0
		for q := 0; q < 5; q++ {
			if c.State(q) == Playing {
				playing++
			}
		}
		if playing > 1 {
			t.Fatalf("after activating %d: %d positions playing", p, playing)
		}
		if c.PlayingPosition() != p {
			t.Errorf("after activating %d: PlayingPosition() = %d", p, c.PlayingPosition())
		}
	}
}

func TestDeactivateRewinds(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	res := c.Activate(0)
	prepareAll(c, res.Prepare)
	c.Advance(3*time.Second, 10*time.Second)
	if c.Playhead(0) != 3*time.Second {
		t.Fatalf("playhead = %v, want 3s", c.Playhead(0))
	}

	c.Activate(1)
	if c.State(0) != Idle {
		t.Errorf("deactivated state = %v, want idle", c.State(0))
	}
	if c.Playhead(0) != 0 {
		t.Errorf("deactivated playhead = %v, want 0", c.Playhead(0))
	}
}

func TestLookaheadBound(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	res := c.Activate(0)
	prepareAll(c, res.Prepare)

	// Prepared set after activating 0 is exactly {0,1,2}.
	want := map[int]bool{0: true, 1: true, 2: true}
	got := c.PreparedSet()
	if len(got) != len(want) {
		t.Fatalf("prepared set = %v, want %v", got, want)
	}
	for p := range want {
		if !got[p] {
			t.Errorf("position %d not prepared", p)
		}
	}

	// Scrolling to 1 adds only position 3; nothing already prepared is
	// requested again.
	res = c.Activate(1)
	if len(res.Prepare) != 1 || res.Prepare[0] != 3 {
		t.Errorf("Activate(1).Prepare = %v, want [3]", res.Prepare)
	}
}

func TestNoDuplicatePrepareWhileInFlight(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	c.Activate(0) // prepare {0,1,2} now in flight
	res := c.Activate(1)
	for _, p := range res.Prepare {
		if p < 3 {
			t.Errorf("position %d requested again while in flight", p)
		}
	}
}

func TestStalePrefetchNeverAutoPlays(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	c.Activate(0)
	c.Activate(1)

	// Position 0's prepare completes after it was abandoned.
	c.MediaReady(0, "/tmp/spool")
	if c.State(0) == Playing {
		t.Error("stale media-ready started playback on a non-active position")
	}
	if !c.Prepared(0) {
		t.Error("stale media-ready should still mark the handle prepared")
	}
}

func TestPlayRejectedFallsBackToPaused(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	res := c.Activate(0)
	prepareAll(c, res.Prepare)
	c.PlayRejected(0)

	if c.State(0) != Paused || !c.Rejected(0) {
		t.Errorf("state = %v rejected = %v, want paused affordance", c.State(0), c.Rejected(0))
	}

	// A rejection against a non-active position is ignored.
	c.PlayRejected(3)
	if c.State(3) != Idle {
		t.Errorf("non-active rejection changed state to %v", c.State(3))
	}

	// User can resume explicitly.
	c.TogglePlay(0)
	if c.State(0) != Playing || c.Rejected(0) {
		t.Error("explicit toggle should clear the rejection")
	}
}

func TestTogglePlayOnlyOnActive(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	res := c.Activate(0)
	prepareAll(c, res.Prepare)

	if c.TogglePlay(2) {
		t.Error("toggle on non-active position must be a no-op")
	}
	if !c.TogglePlay(0) || c.State(0) != Paused {
		t.Error("toggle on active position should pause")
	}
	if !c.TogglePlay(0) || c.State(0) != Playing {
		t.Error("second toggle should resume")
	}
}

func TestRefillOnLastPosition(t *testing.T) {
	c := NewController()
	c.SetTotal(5)

	res := c.Activate(4)
	if !res.NeedRefill {
		t.Fatal("activating the last position must request a refill")
	}

	// While in flight, re-activation does not request another.
	res = c.Activate(4)
	if res.NeedRefill {
		t.Error("second refill requested while one is in flight")
	}

	// Empty refill: terminal steady state, no further requests.
	c.RefillResolved(0)
	if !c.Exhausted() {
		t.Error("empty refill should mark the feed exhausted")
	}
	res = c.Activate(4)
	if res.NeedRefill {
		t.Error("exhausted feed requested a refill")
	}

	// A failed refill is transient: the next last-position activation may
	// try again without the exhausted latch.
	c2 := NewController()
	c2.SetTotal(5)
	if res := c2.Activate(4); !res.NeedRefill {
		t.Fatal("setup: refill expected")
	}
	c2.RefillFailed()
	if c2.Exhausted() {
		t.Error("failed refill must not mark the feed exhausted")
	}
	c2.Activate(3)
	if res := c2.Activate(4); !res.NeedRefill {
		t.Error("refill not retried after a transient failure")
	}

	// New items clear the latch.
	c.SetTotal(8)
	if c.Exhausted() {
		t.Error("growth should clear exhaustion")
	}
	res = c.Activate(7)
	if !res.NeedRefill {
		t.Error("last position of the grown feed should refill again")
	}
}

func TestActivateOutOfRange(t *testing.T) {
	c := NewController()
	c.SetTotal(3)

	res := c.Activate(0)
	prepareAll(c, res.Prepare)

	c.Activate(5)
	if c.Active() != 0 {
		t.Errorf("out-of-range activation moved active to %d", c.Active())
	}
	if c.PlayingPosition() != 0 {
		t.Error("out-of-range activation disturbed playback")
	}
}

func TestAdvanceLoops(t *testing.T) {
	c := NewController()
	c.SetTotal(1)
	res := c.Activate(0)
	prepareAll(c, res.Prepare)

	c.Advance(9*time.Second, 10*time.Second)
	got := c.Advance(3*time.Second, 10*time.Second)
	if got != 2*time.Second {
		t.Errorf("looped playhead = %v, want 2s", got)
	}
}

func TestAdvanceWithoutLoopPausesAtEnd(t *testing.T) {
	c := NewController()
	c.SetLoop(false)
	c.SetTotal(1)
	res := c.Activate(0)
	prepareAll(c, res.Prepare)

	got := c.Advance(12*time.Second, 10*time.Second)
	if got != 10*time.Second {
		t.Errorf("playhead = %v, want clamped to 10s", got)
	}
	if c.State(0) != Paused {
		t.Errorf("state = %v, want paused at clip end", c.State(0))
	}
}

func TestToggleMuteIsGlobal(t *testing.T) {
	c := NewController()
	if c.Muted() {
		t.Fatal("mute should start off")
	}
	c.ToggleMute()
	if !c.Muted() {
		t.Error("mute did not toggle on")
	}
}
