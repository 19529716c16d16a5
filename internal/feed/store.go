package feed

// Store is the single source of truth the view renders. NOT an interface -
// concrete type, mutated only from the event loop.
type Store struct {
	items []Item
	index map[string]int // id -> slice position
	pos   int

	// Optimistic baselines. A baseline is recorded on the first optimistic
	// patch for an (id, group) pair and only cleared by Reconcile. A second
	// patch before reconciliation keeps the original baseline so Revert
	// always lands on server-confirmed truth.
	baselines map[baselineKey]Patch

	// Follow state keyed by owner, independent of any single item. Absent
	// key means "not following".
	following    map[string]bool
	followerBase map[string]followBaseline
}

type baselineKey struct {
	id    string
	group Group
}

// followBaseline remembers whether the owner key existed before the
// optimistic toggle, so Revert can restore "absent" exactly.
type followBaseline struct {
	present   bool
	following bool
}

// NewStore creates an empty feed store.
func NewStore() *Store {
	return &Store{
		index:        make(map[string]int),
		baselines:    make(map[baselineKey]Patch),
		following:    make(map[string]bool),
		followerBase: make(map[string]followBaseline),
	}
}

// Load appends items to the feed, keeping the first occurrence of each ID.
// Re-fetching an overlapping page is idempotent. Returns the number of items
// actually appended.
func (s *Store) Load(items []Item) int {
	added := 0
	for _, item := range items {
		if _, seen := s.index[item.ID]; seen {
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
		added++
	}
	return added
}

// Len returns the number of loaded items.
func (s *Store) Len() int { return len(s.items) }

// Item returns a copy of the item with the given ID.
func (s *Store) Item(id string) (Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// ItemAt returns a copy of the item at the given position.
func (s *Store) ItemAt(pos int) (Item, bool) {
	if pos < 0 || pos >= len(s.items) {
		return Item{}, false
	}
	return s.items[pos], true
}

// Position returns the current feed position.
func (s *Store) Position() int { return s.pos }

// SetPosition moves the current position, clamped to the loaded range.
// Returns the effective position.
func (s *Store) SetPosition(pos int) int {
	if len(s.items) == 0 {
		s.pos = 0
		return 0
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(s.items) {
		pos = len(s.items) - 1
	}
	s.pos = pos
	return s.pos
}

// ApplyOptimistic mutates the item's field group synchronously, recording the
// pre-patch values on first call so Revert can restore them.
func (s *Store) ApplyOptimistic(id string, group Group, p Patch) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	key := baselineKey{id: id, group: group}
	if _, exists := s.baselines[key]; !exists {
		s.baselines[key] = s.snapshot(i, group)
	}
	s.apply(i, p)
	return true
}

// Reconcile overwrites the field group with the server-authoritative values
// and discards the baseline.
func (s *Store) Reconcile(id string, group Group, p Patch) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.apply(i, p)
	delete(s.baselines, baselineKey{id: id, group: group})
	return true
}

// Revert restores the pre-patch baseline for the field group. No-op if there
// is no outstanding optimistic patch.
func (s *Store) Revert(id string, group Group) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	key := baselineKey{id: id, group: group}
	base, exists := s.baselines[key]
	if !exists {
		return false
	}
	s.apply(i, base)
	delete(s.baselines, key)
	return true
}

func (s *Store) snapshot(i int, group Group) Patch {
	item := s.items[i]
	switch group {
	case GroupLike:
		return Patch{IsLiked: Bool(item.IsLiked), LikeCount: Int(item.LikeCount)}
	case GroupShare:
		return Patch{ShareCount: Int(item.ShareCount)}
	}
	return Patch{}
}

func (s *Store) apply(i int, p Patch) {
	item := &s.items[i]
	if p.IsLiked != nil {
		item.IsLiked = *p.IsLiked
	}
	if p.LikeCount != nil {
		item.LikeCount = *p.LikeCount
	}
	if p.ShareCount != nil {
		item.ShareCount = *p.ShareCount
	}
}

// Following reports whether the owner is followed. Absent means false.
func (s *Store) Following(ownerID string) bool {
	return s.following[ownerID]
}

// ApplyFollowOptimistic sets the follow state for an owner, recording the
// prior state on first call. The change is visible on every rendered item
// sharing the owner, since renders read this map.
func (s *Store) ApplyFollowOptimistic(ownerID string, following bool) {
	if _, exists := s.followerBase[ownerID]; !exists {
		prev, present := s.following[ownerID]
		s.followerBase[ownerID] = followBaseline{present: present, following: prev}
	}
	s.following[ownerID] = following
}

// ReconcileFollow overwrites the follow state with the server-authoritative
// value and discards the baseline.
func (s *Store) ReconcileFollow(ownerID string, following bool) {
	s.following[ownerID] = following
	delete(s.followerBase, ownerID)
}

// RevertFollow restores the pre-patch follow state, including "never seen".
func (s *Store) RevertFollow(ownerID string) {
	base, exists := s.followerBase[ownerID]
	if !exists {
		return
	}
	if base.present {
		s.following[ownerID] = base.following
	} else {
		delete(s.following, ownerID)
	}
	delete(s.followerBase, ownerID)
}

// Reset clears all feed state. Used when navigating away from the feed.
func (s *Store) Reset() {
	s.items = nil
	s.index = make(map[string]int)
	s.pos = 0
	s.baselines = make(map[baselineKey]Patch)
	s.following = make(map[string]bool)
	s.followerBase = make(map[string]followBaseline)
}
