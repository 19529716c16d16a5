package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorLike      = lipgloss.Color("197") // Red-pink for hearts
)

// MediaFrame is the border around the media surface.
var MediaFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary)

// Caption style for the item caption.
var Caption = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// OwnerLine style for the publisher line.
var OwnerLine = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// FollowBadge style for the follow affordance.
var FollowBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// FollowingBadge style once the owner is followed.
var FollowingBadge = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// Engagement style for the like/comment/share column.
var Engagement = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// LikedHeart style for the liked state and the double-tap flash.
var LikedHeart = lipgloss.NewStyle().
	Foreground(colorLike).
	Bold(true)

// PausedAffordance style for the tap-to-play hint.
var PausedAffordance = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// NoticeStyle for the transient error notice.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// ProgressFilled and ProgressEmpty draw the playhead bar.
var (
	ProgressFilled = lipgloss.NewStyle().Foreground(colorHighlight)
	ProgressEmpty  = lipgloss.NewStyle().Foreground(colorMuted)
)
