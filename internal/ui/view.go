package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/finchley/reel/internal/feed"
	"github.com/finchley/reel/internal/playback"
)

// View renders the UI: the slot viewport over the animated offset, then the
// status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting..."
	}

	var sections []string
	sections = append(sections, m.renderViewport())
	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderViewport slices the slot column at the animated scroll offset. Only
// the slots overlapping the viewport are rendered.
func (m Model) renderViewport() string {
	if m.feed.Len() == 0 {
		empty := m.spinner.View() + " loading feed..."
		if m.err != nil {
			empty = "feed unavailable"
		}
		return lipgloss.Place(m.width, m.slotRows, lipgloss.Center, lipgloss.Center, empty)
	}

	extent := m.slotRows
	off := int(m.scrollPos + 0.5)
	if off < 0 {
		off = 0
	}
	maxOff := (m.feed.Len() - 1) * extent
	if off > maxOff {
		off = maxOff
	}

	first := off / extent
	var lines []string
	for i := first; i <= first+1 && i < m.feed.Len(); i++ {
		lines = append(lines, strings.Split(m.renderSlot(i), "\n")...)
	}

	start := off - first*extent
	end := start + extent
	if end > len(lines) {
		// Bottom of the feed: pad with blank rows.
		for len(lines) < end {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines[start:end], "\n")
}

// renderSlot draws one feed position at exactly slotRows x width.
func (m Model) renderSlot(pos int) string {
	item, ok := m.feed.ItemAt(pos)
	if !ok {
		return lipgloss.Place(m.width, m.slotRows, lipgloss.Center, lipgloss.Center, "")
	}

	surface := m.renderMediaSurface(pos, item)
	overlay := m.renderOverlay(pos, item)

	block := lipgloss.JoinVertical(lipgloss.Left, surface, overlay)
	return lipgloss.Place(m.width, m.slotRows, lipgloss.Center, lipgloss.Top, block)
}

// renderMediaSurface draws the media frame with the state affordance in the
// middle: spinner while buffering, play glyph when paused, heart flash on
// double tap.
func (m Model) renderMediaSurface(pos int, item feed.Item) string {
	frameW := m.width - 4
	frameH := m.slotRows - 5 // overlay rows below
	if frameW < 10 {
		frameW = 10
	}
	if frameH < 3 {
		frameH = 3
	}

	var center string
	switch m.ctrl.State(pos) {
	case playback.Buffering:
		center = m.spinner.View() + " buffering"
	case playback.Paused:
		center = PausedAffordance.Render("▶ tap to play")
	case playback.Playing:
		center = ""
	default:
		center = ""
	}
	if m.heart && pos == m.ctrl.Active() {
		center = LikedHeart.Render("❤")
	}

	inner := lipgloss.Place(frameW-2, frameH-2, lipgloss.Center, lipgloss.Center, center)
	box := MediaFrame.Render(inner)

	bar := m.renderProgress(pos, item, frameW)
	return lipgloss.JoinVertical(lipgloss.Left, box, bar)
}

// renderProgress draws the playhead bar under the media frame.
func (m Model) renderProgress(pos int, item feed.Item, width int) string {
	if item.Duration <= 0 || width < 4 {
		return ""
	}
	frac := float64(m.ctrl.Playhead(pos)) / float64(item.Duration)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return ProgressFilled.Render(strings.Repeat("━", filled)) +
		ProgressEmpty.Render(strings.Repeat("─", width-filled))
}

// renderOverlay draws the caption, owner and engagement lines.
func (m Model) renderOverlay(pos int, item feed.Item) string {
	owner := OwnerLine.Render("@" + item.OwnerName)
	if m.feed.Following(item.OwnerID) {
		owner += FollowingBadge.Render("following")
	} else {
		owner += FollowBadge.Render("+ follow")
	}

	caption := Caption.Render(truncate(item.Caption, m.width-4))

	heart := "♡"
	likeStyle := Engagement
	if item.IsLiked {
		heart = "♥"
		likeStyle = LikedHeart
	}
	engagement := likeStyle.Render(fmt.Sprintf("%s %d", heart, item.LikeCount)) +
		Engagement.Render(fmt.Sprintf("🗨 %d", item.CommentCount)) +
		Engagement.Render(fmt.Sprintf("↗ %d", item.ShareCount))

	return lipgloss.JoinVertical(lipgloss.Left, owner, caption, engagement)
}

func (m Model) renderStatusBar() string {
	if m.notice != "" {
		return NoticeStyle.Width(m.width).Render("  " + m.notice)
	}

	mute := "sound on"
	if m.ctrl.Muted() {
		mute = "muted"
	}
	pos := ""
	if m.feed.Len() > 0 {
		pos = fmt.Sprintf("%d/%d", m.feed.Position()+1, m.feed.Len())
		if m.ctrl.Exhausted() {
			pos += " · end"
		}
	}
	text := fmt.Sprintf("  %s  ·  %s  ·  [j/k] scroll  [space] play  [l] like  [f] follow  [s] share  [m] mute  [q] quit",
		pos, mute)
	return StatusBar.Width(m.width).Render(text)
}

// truncate shortens s to at most max terminal cells. Width-aware so captions
// with wide or multi-byte runes never get split mid-rune.
func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
