package store

import (
	"testing"
	"time"

	"github.com/finchley/reel/internal/feed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleItems() []feed.Item {
	now := time.Now().Truncate(time.Second)
	return []feed.Item{
		{ID: "v1", MediaURI: "https://cdn/v1.mp4", OwnerID: "o1", LikeCount: 10,
			Duration: 15 * time.Second, Posted: now.Add(-time.Hour)},
		{ID: "v2", MediaURI: "https://cdn/v2.mp4", OwnerID: "o2", LikeCount: 3,
			Duration: 30 * time.Second, Posted: now},
	}
}

func TestSaveItemsDedupe(t *testing.T) {
	s := openTestStore(t)

	n, err := s.SaveItems(sampleItems())
	if err != nil {
		t.Fatalf("SaveItems: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted %d, want 2", n)
	}

	// Saving the same page again inserts nothing.
	n, err = s.SaveItems(sampleItems())
	if err != nil {
		t.Fatalf("SaveItems (repeat): %v", err)
	}
	if n != 0 {
		t.Errorf("repeat insert count = %d, want 0", n)
	}
}

func TestRecentItemsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.SaveItems(sampleItems()); err != nil {
		t.Fatal(err)
	}

	items, err := s.RecentItems(10)
	if err != nil {
		t.Fatalf("RecentItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	byID := make(map[string]feed.Item)
	for _, it := range items {
		byID[it.ID] = it
	}
	v1 := byID["v1"]
	if v1.MediaURI != "https://cdn/v1.mp4" || v1.LikeCount != 10 {
		t.Errorf("v1 round trip: %+v", v1)
	}
	if v1.Duration != 15*time.Second {
		t.Errorf("v1 duration = %v, want 15s", v1.Duration)
	}
}

func TestMarkSeenAndEngagement(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.SaveItems(sampleItems()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkSeen("v1"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if err := s.UpdateEngagement("v1", true, 12); err != nil {
		t.Fatalf("UpdateEngagement: %v", err)
	}

	items, err := s.RecentItems(10)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range items {
		if it.ID == "v1" {
			if !it.IsLiked || it.LikeCount != 12 {
				t.Errorf("engagement not persisted: %+v", it)
			}
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	s := openTestStore(t)

	cursor, err := s.LoadCursor()
	if err != nil {
		t.Fatalf("LoadCursor (empty): %v", err)
	}
	if cursor != "" {
		t.Errorf("empty store cursor = %q", cursor)
	}

	if err := s.SaveCursor("abc"); err != nil {
		t.Fatalf("SaveCursor: %v", err)
	}
	if err := s.SaveCursor("def"); err != nil {
		t.Fatalf("SaveCursor (overwrite): %v", err)
	}

	cursor, err = s.LoadCursor()
	if err != nil {
		t.Fatal(err)
	}
	if cursor != "def" {
		t.Errorf("cursor = %q, want def", cursor)
	}
}
