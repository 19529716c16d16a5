// Package feed holds the in-memory feed state: the ordered item list, the
// current position, and per-item engagement state with optimistic-update
// bookkeeping. Leaf package - no I/O.
package feed

import "time"

// Item is one playable unit in the feed.
type Item struct {
	ID           string
	MediaURI     string // immutable once set
	Caption      string
	OwnerID      string
	OwnerName    string
	IsLiked      bool
	LikeCount    int
	CommentCount int
	ShareCount   int
	Duration     time.Duration
	Posted       time.Time
}

// Group identifies a field group for optimistic patches. A group is the unit
// of snapshot/reconcile/revert: patching the same group twice before
// reconciliation keeps the first baseline.
type Group int

const (
	// GroupLike covers IsLiked and LikeCount.
	GroupLike Group = iota
	// GroupShare covers ShareCount.
	GroupShare
)

// Patch is a partial engagement update. Nil fields are left untouched.
type Patch struct {
	IsLiked    *bool
	LikeCount  *int
	ShareCount *int
}

// Bool returns a *bool for building patches inline.
func Bool(v bool) *bool { return &v }

// Int returns an *int for building patches inline.
func Int(v int) *int { return &v }
