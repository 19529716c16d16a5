// Package ui provides the Bubble Tea TUI for reel.
package ui

import (
	"time"

	"github.com/finchley/reel/internal/feed"
)

// FeedLoadedMsg is sent when a page of feed items arrives.
type FeedLoadedMsg struct {
	Items  []feed.Item
	Cursor string
	Refill bool // true when triggered by feed exhaustion
	Err    error
}

// MediaReadyMsg is sent when a position's media finished (or failed)
// preparing.
type MediaReadyMsg struct {
	Position int
	Path     string
	Err      error
}

// LikeResultMsg carries the server-authoritative like state.
type LikeResultMsg struct {
	ID        string
	IsLiked   bool
	LikeCount int
	Err       error
}

// FollowResultMsg carries the server-authoritative follow state.
type FollowResultMsg struct {
	OwnerID     string
	IsFollowing bool
	Err         error
}

// ShareAckMsg is the fire-and-forget share call's result. Failures are
// logged, never surfaced.
type ShareAckMsg struct {
	ID  string
	Err error
}

// TapExpiredMsg resolves a pending tap window.
type TapExpiredMsg struct {
	Seq int
}

// FrameMsg drives the scroll spring and the playhead.
type FrameMsg time.Time

// NoticeExpiredMsg clears the transient notice line.
type NoticeExpiredMsg struct {
	Seq int
}

// HeartExpiredMsg clears the double-tap heart flash.
type HeartExpiredMsg struct {
	Seq int
}
