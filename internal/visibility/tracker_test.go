package visibility

import "testing"

// geometry helper: 40-row slots, 40-row viewport (one slot per screen).
func newTestTracker(slots int) *Tracker {
	tr := New()
	tr.SetGeometry(40, 40)
	tr.SetSlotCount(slots)
	return tr
}

func TestInitialActivation(t *testing.T) {
	tr := newTestTracker(5)

	trans, ok := tr.Evaluate(0)
	if !ok {
		t.Fatal("expected activation at offset 0")
	}
	if trans.Deactivated != None || trans.Activated != 0 {
		t.Errorf("got %+v, want deactivate=None activate=0", trans)
	}
	if tr.Active() != 0 {
		t.Errorf("Active() = %d, want 0", tr.Active())
	}
}

func TestScrollTransition(t *testing.T) {
	tr := newTestTracker(5)
	tr.Evaluate(0)

	// Offset 40 = slot 1 fully visible.
	trans, ok := tr.Evaluate(40)
	if !ok {
		t.Fatal("expected transition at offset 40")
	}
	if trans.Deactivated != 0 || trans.Activated != 1 {
		t.Errorf("got %+v, want deactivate=0 activate=1", trans)
	}
}

func TestMidScrollNoFlap(t *testing.T) {
	tr := newTestTracker(5)
	tr.Evaluate(0)

	// Halfway between slots 0 and 1: each has 50% visibility. Neither
	// crosses 75%, so the old slot stays active.
	if _, ok := tr.Evaluate(20); ok {
		t.Error("no transition expected at 50/50 split")
	}
	if tr.Active() != 0 {
		t.Errorf("Active() = %d, want 0 to remain", tr.Active())
	}

	// Slot 1 at exactly 75% visible: threshold is strict, still no flip.
	if _, ok := tr.Evaluate(30); ok {
		t.Error("no transition expected at exactly the threshold")
	}

	// Slot 1 past the threshold flips.
	trans, ok := tr.Evaluate(31)
	if !ok {
		t.Fatal("expected transition past threshold")
	}
	if trans.Activated != 1 {
		t.Errorf("activated %d, want 1", trans.Activated)
	}
}

func TestExactlyOneTransitionPerEvaluation(t *testing.T) {
	tr := newTestTracker(5)
	tr.Evaluate(0)

	// A big jump lands directly on slot 3. One transition, deactivating the
	// previous slot, never two activations.
	trans, ok := tr.Evaluate(120)
	if !ok {
		t.Fatal("expected transition")
	}
	if trans.Deactivated != 0 || trans.Activated != 3 {
		t.Errorf("got %+v, want deactivate=0 activate=3", trans)
	}

	// Re-evaluating the same offset is idempotent.
	if _, ok := tr.Evaluate(120); ok {
		t.Error("repeat evaluation emitted a duplicate transition")
	}
}

func TestBackwardScroll(t *testing.T) {
	tr := newTestTracker(5)
	tr.Evaluate(0)
	tr.Evaluate(80)

	trans, ok := tr.Evaluate(40)
	if !ok {
		t.Fatal("expected transition scrolling back")
	}
	if trans.Deactivated != 2 || trans.Activated != 1 {
		t.Errorf("got %+v, want deactivate=2 activate=1", trans)
	}
}

func TestDegradedMode(t *testing.T) {
	tr := New()
	tr.SetGeometry(0, 0) // no usable geometry
	tr.SetSlotCount(5)

	trans, ok := tr.Evaluate(0)
	if !ok || trans.Activated != 0 {
		t.Fatalf("degraded tracker should activate slot 0 once, got %+v ok=%v", trans, ok)
	}

	// No further transitions, ever.
	for _, off := range []float64{40, 80, 120} {
		if _, ok := tr.Evaluate(off); ok {
			t.Errorf("degraded tracker emitted transition at offset %v", off)
		}
	}
}

func TestNeverConfiguredGeometryDegrades(t *testing.T) {
	// SetGeometry never called: same degraded contract as explicit zero
	// geometry, never the division-by-zero slot math.
	tr := New()
	tr.SetSlotCount(5)

	trans, ok := tr.Evaluate(0)
	if !ok || trans.Deactivated != None || trans.Activated != 0 {
		t.Fatalf("unconfigured tracker should activate slot 0 once, got %+v ok=%v", trans, ok)
	}
	if _, ok := tr.Evaluate(40); ok {
		t.Error("unconfigured tracker emitted a second transition")
	}

	// Valid geometry arriving later restores normal tracking.
	tr.SetGeometry(40, 40)
	trans, ok = tr.Evaluate(80)
	if !ok || trans.Activated != 2 {
		t.Errorf("after late geometry: got %+v ok=%v, want activate=2", trans, ok)
	}
}

func TestEmptyFeed(t *testing.T) {
	tr := newTestTracker(0)
	if _, ok := tr.Evaluate(0); ok {
		t.Error("tracker with zero slots must stay silent")
	}
}
