package gesture

import (
	"testing"
	"time"
)

func TestSingleTapAfterWindow(t *testing.T) {
	var c Classifier
	t0 := time.Now()

	kind, seq := c.Tap(t0)
	if kind != TapNone {
		t.Fatalf("first tap = %v, want TapNone (window opened)", kind)
	}
	if !c.Pending() {
		t.Fatal("window should be open")
	}

	if got := c.Expire(seq); got != TapSingle {
		t.Errorf("Expire = %v, want TapSingle", got)
	}
	if c.Pending() {
		t.Error("window should be closed after expiry")
	}
}

func TestDoubleTapInsideWindow(t *testing.T) {
	var c Classifier
	t0 := time.Now()

	_, seq := c.Tap(t0)
	kind, _ := c.Tap(t0.Add(150 * time.Millisecond))
	if kind != TapDouble {
		t.Fatalf("second tap at +150ms = %v, want TapDouble", kind)
	}

	// The suppressed single's timer fires later and must be stale.
	if got := c.Expire(seq); got != TapNone {
		t.Errorf("stale expiry = %v, want TapNone", got)
	}
}

func TestTapAtWindowEdge(t *testing.T) {
	var c Classifier
	t0 := time.Now()

	c.Tap(t0)
	kind, _ := c.Tap(t0.Add(DoubleTapWindow))
	if kind != TapDouble {
		t.Errorf("tap at exactly the window edge = %v, want TapDouble", kind)
	}
}

func TestLateSecondTapOpensNewWindow(t *testing.T) {
	var c Classifier
	t0 := time.Now()

	_, seq1 := c.Tap(t0)
	kind, seq2 := c.Tap(t0.Add(DoubleTapWindow + 50*time.Millisecond))
	if kind != TapNone {
		t.Fatalf("late second tap = %v, want TapNone (fresh window)", kind)
	}
	if seq2 == seq1 {
		t.Error("fresh window should bump the sequence")
	}
	if got := c.Expire(seq1); got != TapNone {
		t.Errorf("old window expiry = %v, want TapNone", got)
	}
	if got := c.Expire(seq2); got != TapSingle {
		t.Errorf("new window expiry = %v, want TapSingle", got)
	}
}

func TestTripleTap(t *testing.T) {
	var c Classifier
	t0 := time.Now()

	c.Tap(t0)
	kind, _ := c.Tap(t0.Add(100 * time.Millisecond))
	if kind != TapDouble {
		t.Fatal("expected double")
	}

	// Third tap starts over; it is a first tap of a new gesture.
	kind, seq := c.Tap(t0.Add(200 * time.Millisecond))
	if kind != TapNone {
		t.Errorf("third tap = %v, want TapNone", kind)
	}
	if got := c.Expire(seq); got != TapSingle {
		t.Errorf("third tap expiry = %v, want TapSingle", got)
	}
}
