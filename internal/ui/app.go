package ui

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/harmonica"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/finchley/reel/internal/api"
	"github.com/finchley/reel/internal/feed"
	"github.com/finchley/reel/internal/gesture"
	"github.com/finchley/reel/internal/logging"
	"github.com/finchley/reel/internal/media"
	"github.com/finchley/reel/internal/playback"
	"github.com/finchley/reel/internal/store"
	"github.com/finchley/reel/internal/visibility"
)

// frameRate drives the scroll spring and the playhead.
const frameRate = 60

const frameDelta = time.Second / frameRate

// noticeDuration is how long a transient error notice stays up.
const noticeDuration = 3 * time.Second

// heartDuration is how long the double-tap heart flash stays up.
const heartDuration = 600 * time.Millisecond

// Service is the slice of the feed API the UI needs. *api.Client satisfies
// it; tests substitute a stub.
type Service interface {
	ListFeed(ctx context.Context, cursor string, limit int) (api.FeedPage, error)
	Like(ctx context.Context, id string) (api.LikeResult, error)
	Unlike(ctx context.Context, id string) (api.LikeResult, error)
	Follow(ctx context.Context, ownerID string) (api.FollowResult, error)
	Unfollow(ctx context.Context, ownerID string) (api.FollowResult, error)
	Share(ctx context.Context, id, eventID string) error
}

// Preparer spools media for a position. *media.Prefetcher satisfies it.
type Preparer interface {
	Prepare(ctx context.Context, id, mediaURI string) (string, error)
}

var _ Preparer = (*media.Prefetcher)(nil)

// Model is the root Bubble Tea model: the feed store, visibility tracker,
// playback controller and gesture router wired together over one event loop.
type Model struct {
	feed    *feed.Store
	tracker *visibility.Tracker
	ctrl    *playback.Controller
	router  *gesture.Router
	taps    gesture.Classifier

	svc      Service
	prep     Preparer
	cache    *store.Store // optional, nil to run without persistence
	pageSize int

	width    int
	height   int
	slotRows int

	// Smooth scrolling with harmonica spring physics. The tracker samples
	// the animated offset each frame, so mid-scroll visibility is real.
	spring    harmonica.Spring
	scrollPos float64
	scrollVel float64
	targetIdx int

	spinner   spinner.Model
	cursor    string // next feed page cursor
	notice    string
	noticeSeq int
	heart     bool
	heartSeq  int
	err       error
}

// New creates the root model. cache may be nil.
func New(svc Service, prep Preparer, cache *store.Store, pageSize int, startMuted, loop bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	ctrl := playback.NewController()
	if startMuted != ctrl.Muted() {
		ctrl.ToggleMute()
	}
	ctrl.SetLoop(loop)

	fs := feed.NewStore()
	m := Model{
		feed:     fs,
		tracker:  visibility.New(),
		ctrl:     ctrl,
		router:   gesture.NewRouter(fs, ctrl),
		svc:      svc,
		prep:     prep,
		cache:    cache,
		pageSize: pageSize,
		spring:   harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 0.8),
		spinner:  s,
	}

	// Warm start from the cache: render the last session's items instantly
	// while the first page loads, and resume the feed cursor.
	if cache != nil {
		if cur, err := cache.LoadCursor(); err == nil && cur != "" {
			m.cursor = cur
		}
		if items, err := cache.RecentItems(pageSize); err == nil && len(items) > 0 {
			m.feed.Load(items)
			ctrl.SetTotal(m.feed.Len())
			m.tracker.SetSlotCount(m.feed.Len())
		}
	}
	return m
}

// Init starts the first feed load, the frame loop and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadFeedCmd(false),
		m.frameCmd(),
		m.spinner.Tick,
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m.handleTap(time.Now())
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.slotRows = msg.Height - 1 // status bar
		if m.slotRows < 3 {
			m.slotRows = 3
		}
		m.tracker.SetGeometry(m.slotRows, m.slotRows)
		// Re-snap the animated offset to the current target.
		m.scrollPos = float64(m.targetIdx * m.slotRows)
		m.scrollVel = 0
		cmd := m.evaluateVisibility()
		return m, cmd

	case FrameMsg:
		return m.handleFrame()

	case FeedLoadedMsg:
		return m.handleFeedLoaded(msg)

	case MediaReadyMsg:
		if msg.Err != nil {
			logging.Warn("media prepare failed", "position", msg.Position, "err", msg.Err)
			m.ctrl.MediaFailed(msg.Position)
			return m, nil
		}
		m.ctrl.MediaReady(msg.Position, msg.Path)
		return m, nil

	case LikeResultMsg:
		notice := m.router.LikeResult(msg.ID, msg.IsLiked, msg.LikeCount, msg.Err)
		if notice != "" {
			logging.Warn("like failed", "id", msg.ID, "err", msg.Err)
			cmd := m.showNotice(notice)
			return m, cmd
		}
		if m.cache != nil {
			m.cache.UpdateEngagement(msg.ID, msg.IsLiked, msg.LikeCount)
		}
		return m, nil

	case FollowResultMsg:
		notice := m.router.FollowResult(msg.OwnerID, msg.IsFollowing, msg.Err)
		if notice != "" {
			logging.Warn("follow failed", "owner", msg.OwnerID, "err", msg.Err)
			cmd := m.showNotice(notice)
			return m, cmd
		}
		return m, nil

	case ShareAckMsg:
		// Swallowed: the share sheet already succeeded for the user.
		if msg.Err != nil {
			logging.Warn("share tracking failed", "id", msg.ID, "err", msg.Err)
		}
		return m, nil

	case TapExpiredMsg:
		if m.taps.Expire(msg.Seq) == gesture.TapSingle {
			m.router.SingleTap()
		}
		return m, nil

	case NoticeExpiredMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case HeartExpiredMsg:
		if msg.Seq == m.heartSeq {
			m.heart = false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.cache != nil {
			m.cache.SaveCursor(m.cursor)
		}
		return m, tea.Quit

	case "down", "j":
		m.step(1)
		return m, nil

	case "up", "k":
		m.step(-1)
		return m, nil

	case " ":
		m.router.SingleTap()
		return m, nil

	case "m":
		m.ctrl.ToggleMute()
		return m, nil

	case "l":
		return m.toggleLike()

	case "f":
		return m.toggleFollow()

	case "s":
		return m.share()

	case "c":
		// Comment navigation is external; our only job is to stop playback
		// before handing off.
		if active := m.ctrl.Active(); active >= 0 {
			m.ctrl.Deactivate(active)
		}
		cmd := m.showNotice("comments open in the companion app")
		return m, cmd
	}

	return m, nil
}

// step moves the scroll target one slot; the frame loop animates toward it.
// Clamped: stepping past the end of an exhausted feed is a no-op.
func (m *Model) step(delta int) {
	if m.feed.Len() == 0 {
		return
	}
	next := m.targetIdx + delta
	if next < 0 {
		next = 0
	}
	if next >= m.feed.Len() {
		next = m.feed.Len() - 1
	}
	m.targetIdx = next
}

// handleTap feeds a tap into the classifier.
func (m Model) handleTap(now time.Time) (tea.Model, tea.Cmd) {
	kind, seq := m.taps.Tap(now)
	switch kind {
	case gesture.TapDouble:
		return m.doubleTapLike()
	case gesture.TapNone:
		// Window open: schedule the expiry that resolves a lone tap.
		return m, tea.Tick(gesture.DoubleTapWindow, func(time.Time) tea.Msg {
			return TapExpiredMsg{Seq: seq}
		})
	}
	return m, nil
}

func (m Model) doubleTapLike() (tea.Model, tea.Cmd) {
	item, ok := m.feed.ItemAt(m.feed.Position())
	if !ok {
		return m, nil
	}

	m.heart = true
	m.heartSeq++
	seq := m.heartSeq
	heartCmd := tea.Tick(heartDuration, func(time.Time) tea.Msg {
		return HeartExpiredMsg{Seq: seq}
	})

	req, issued := m.router.DoubleTap(item.ID)
	if !issued {
		// Already liked: idempotent, just the flash.
		return m, heartCmd
	}
	return m, tea.Batch(heartCmd, m.likeCmd(req))
}

func (m Model) toggleLike() (tea.Model, tea.Cmd) {
	item, ok := m.feed.ItemAt(m.feed.Position())
	if !ok {
		return m, nil
	}
	req, issued := m.router.ToggleLike(item.ID)
	if !issued {
		return m, nil
	}
	return m, m.likeCmd(req)
}

func (m Model) likeCmd(req gesture.LikeRequest) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		var res api.LikeResult
		var err error
		if req.Like {
			res, err = svc.Like(ctx, req.ID)
		} else {
			res, err = svc.Unlike(ctx, req.ID)
		}
		return LikeResultMsg{ID: req.ID, IsLiked: res.IsLiked, LikeCount: res.LikeCount, Err: err}
	}
}

func (m Model) toggleFollow() (tea.Model, tea.Cmd) {
	item, ok := m.feed.ItemAt(m.feed.Position())
	if !ok {
		return m, nil
	}
	req := m.router.ToggleFollow(item.OwnerID)
	svc := m.svc
	return m, func() tea.Msg {
		ctx := context.Background()
		var res api.FollowResult
		var err error
		if req.Follow {
			res, err = svc.Follow(ctx, req.OwnerID)
		} else {
			res, err = svc.Unfollow(ctx, req.OwnerID)
		}
		return FollowResultMsg{OwnerID: req.OwnerID, IsFollowing: res.IsFollowing, Err: err}
	}
}

func (m Model) share() (tea.Model, tea.Cmd) {
	item, ok := m.feed.ItemAt(m.feed.Position())
	if !ok {
		return m, nil
	}
	if !m.router.Share(item.ID) {
		return m, nil
	}
	svc := m.svc
	eventID := uuid.NewString()
	return m, func() tea.Msg {
		err := svc.Share(context.Background(), item.ID, eventID)
		return ShareAckMsg{ID: item.ID, Err: err}
	}
}

// handleFrame advances the scroll spring and the playhead one frame, then
// re-evaluates visibility against the animated offset.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	target := float64(m.targetIdx * m.slotRows)
	if m.slotRows > 0 && (math.Abs(m.scrollPos-target) > 0.01 || math.Abs(m.scrollVel) > 0.01) {
		m.scrollPos, m.scrollVel = m.spring.Update(m.scrollPos, m.scrollVel, target)
		if math.Abs(m.scrollPos-target) < 0.5 && math.Abs(m.scrollVel) < 0.5 {
			m.scrollPos = target
			m.scrollVel = 0
		}
	}

	if p := m.ctrl.PlayingPosition(); p >= 0 {
		if item, ok := m.feed.ItemAt(p); ok {
			m.ctrl.Advance(frameDelta, item.Duration)
		}
	}

	cmd := m.evaluateVisibility()
	return m, tea.Batch(cmd, m.frameCmd())
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(frameDelta, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// evaluateVisibility asks the tracker for a transition at the current
// animated offset and applies it.
func (m *Model) evaluateVisibility() tea.Cmd {
	tr, ok := m.tracker.Evaluate(m.scrollPos)
	if !ok {
		return nil
	}
	return m.applyTransition(tr)
}

// applyTransition routes a visibility transition into the playback
// controller and dispatches the async work it requires. The controller
// deactivates the old position before activating the new one.
func (m *Model) applyTransition(tr visibility.Transition) tea.Cmd {
	res := m.ctrl.Activate(tr.Activated)
	m.feed.SetPosition(tr.Activated)

	if item, ok := m.feed.ItemAt(tr.Activated); ok && m.cache != nil {
		m.cache.MarkSeen(item.ID)
	}

	var cmds []tea.Cmd
	for _, p := range res.Prepare {
		if cmd := m.prepareCmd(p); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if res.NeedRefill {
		cmds = append(cmds, m.loadFeedCmd(true))
	}
	return tea.Batch(cmds...)
}

func (m Model) prepareCmd(p int) tea.Cmd {
	item, ok := m.feed.ItemAt(p)
	if !ok || m.prep == nil {
		return nil
	}
	prep := m.prep
	return func() tea.Msg {
		path, err := prep.Prepare(context.Background(), item.ID, item.MediaURI)
		return MediaReadyMsg{Position: p, Path: path, Err: err}
	}
}

func (m Model) loadFeedCmd(refill bool) tea.Cmd {
	svc := m.svc
	cursor := m.cursor
	limit := m.pageSize
	return func() tea.Msg {
		page, err := svc.ListFeed(context.Background(), cursor, limit)
		if err != nil {
			return FeedLoadedMsg{Refill: refill, Err: err}
		}
		return FeedLoadedMsg{Items: page.Items, Cursor: page.NextCursor, Refill: refill}
	}
}

func (m Model) handleFeedLoaded(msg FeedLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logging.Error("feed load failed", "refill", msg.Refill, "err", msg.Err)
		if msg.Refill {
			m.ctrl.RefillFailed()
		}
		m.err = msg.Err
		cmd := m.showNotice("couldn't load the feed")
		return m, cmd
	}
	m.err = nil

	added := m.feed.Load(msg.Items)
	m.cursor = msg.Cursor
	if msg.Refill {
		m.ctrl.RefillResolved(added)
	} else {
		m.ctrl.SetTotal(m.feed.Len())
	}
	m.tracker.SetSlotCount(m.feed.Len())

	if m.cache != nil {
		if _, err := m.cache.SaveItems(msg.Items); err != nil {
			logging.Warn("cache save failed", "err", err)
		}
		m.cache.SaveCursor(m.cursor)
	}

	logging.Info("feed page loaded", "added", added, "total", m.feed.Len(), "refill", msg.Refill)

	// First page: the tracker has geometry and slots now, so the initial
	// activation can happen.
	cmd := m.evaluateVisibility()
	return m, cmd
}

// showNotice sets the transient notice line and schedules its expiry.
func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}
