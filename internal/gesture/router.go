package gesture

import (
	"github.com/finchley/reel/internal/feed"
	"github.com/finchley/reel/internal/playback"
)

// LikeRequest describes the service call a like toggle requires.
type LikeRequest struct {
	ID   string
	Like bool // true = like, false = unlike
}

// FollowRequest describes the service call a follow toggle requires.
type FollowRequest struct {
	OwnerID string
	Follow  bool
}

// Router applies optimistic mutations to the feed store and decides which
// service calls to issue. It never performs I/O: the caller dispatches the
// returned requests and feeds results back through the *Result methods.
type Router struct {
	store *feed.Store
	ctrl  *playback.Controller
}

// NewRouter creates a router over the store and controller.
func NewRouter(store *feed.Store, ctrl *playback.Controller) *Router {
	return &Router{store: store, ctrl: ctrl}
}

// SingleTap toggles play/pause on the active position.
func (r *Router) SingleTap() bool {
	return r.ctrl.TogglePlay(r.ctrl.Active())
}

// DoubleTap likes the item if it is not already liked. Never unlikes: the
// asymmetry is deliberate, distinct from the explicit like button.
// Returns false when the item was already liked (idempotent no-op).
func (r *Router) DoubleTap(id string) (LikeRequest, bool) {
	item, ok := r.store.Item(id)
	if !ok || item.IsLiked {
		return LikeRequest{}, false
	}
	r.store.ApplyOptimistic(id, feed.GroupLike, feed.Patch{
		IsLiked:   feed.Bool(true),
		LikeCount: feed.Int(item.LikeCount + 1),
	})
	return LikeRequest{ID: id, Like: true}, true
}

// ToggleLike flips the liked state both ways with the locally adjusted
// counter, then hands back the service call to issue.
func (r *Router) ToggleLike(id string) (LikeRequest, bool) {
	item, ok := r.store.Item(id)
	if !ok {
		return LikeRequest{}, false
	}
	liked := !item.IsLiked
	count := item.LikeCount + 1
	if !liked {
		count = item.LikeCount - 1
	}
	r.store.ApplyOptimistic(id, feed.GroupLike, feed.Patch{
		IsLiked:   feed.Bool(liked),
		LikeCount: feed.Int(count),
	})
	return LikeRequest{ID: id, Like: liked}, true
}

// LikeResult reconciles or reverts a like toggle. Returns notice text for
// the transient error banner, or "" on success.
func (r *Router) LikeResult(id string, isLiked bool, likeCount int, err error) string {
	if err != nil {
		r.store.Revert(id, feed.GroupLike)
		return "couldn't update like, try again"
	}
	r.store.Reconcile(id, feed.GroupLike, feed.Patch{
		IsLiked:   feed.Bool(isLiked),
		LikeCount: feed.Int(likeCount),
	})
	return ""
}

// ToggleFollow flips the follow state for an owner, visible immediately on
// every item from that owner.
func (r *Router) ToggleFollow(ownerID string) FollowRequest {
	follow := !r.store.Following(ownerID)
	r.store.ApplyFollowOptimistic(ownerID, follow)
	return FollowRequest{OwnerID: ownerID, Follow: follow}
}

// FollowResult reconciles or reverts a follow toggle.
func (r *Router) FollowResult(ownerID string, isFollowing bool, err error) string {
	if err != nil {
		r.store.RevertFollow(ownerID)
		return "couldn't update follow, try again"
	}
	r.store.ReconcileFollow(ownerID, isFollowing)
	return ""
}

// Share bumps the local share counter and reconciles it immediately: the
// share sheet already succeeded from the user's perspective, so a failed
// tracking call is logged by the caller and never reverted.
func (r *Router) Share(id string) bool {
	item, ok := r.store.Item(id)
	if !ok {
		return false
	}
	r.store.ApplyOptimistic(id, feed.GroupShare, feed.Patch{
		ShareCount: feed.Int(item.ShareCount + 1),
	})
	r.store.Reconcile(id, feed.GroupShare, feed.Patch{
		ShareCount: feed.Int(item.ShareCount + 1),
	})
	return true
}
