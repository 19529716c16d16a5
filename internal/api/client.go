// Package api is the HTTP client for the feed service. The scheduler treats
// these endpoints as opaque collaborators that return definitive server
// state; no retry or caching happens here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/finchley/reel/internal/feed"
)

const userAgent = "reel/0.1"

// Client talks to the feed service. Safe for use from tea.Cmd goroutines:
// it has no mutable state beyond the limiter.
type Client struct {
	base    string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a client for the given base URL and bearer token.
func New(base, token string, timeout time.Duration) *Client {
	return &Client{
		base:   base,
		token:  token,
		client: &http.Client{Timeout: timeout},
		// Engagement taps can come fast; cap the request rate rather than
		// dropping taps.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

// FeedPage is one page of feed items plus the cursor for the next.
type FeedPage struct {
	Items      []feed.Item
	NextCursor string
}

// LikeResult is the server-authoritative like state.
type LikeResult struct {
	IsLiked   bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// FollowResult is the server-authoritative follow state.
type FollowResult struct {
	IsFollowing bool `json:"is_following"`
}

// wire shapes

type feedItemJSON struct {
	ID           string `json:"id"`
	MediaURI     string `json:"media_uri"`
	Caption      string `json:"caption"`
	OwnerID      string `json:"owner_id"`
	OwnerName    string `json:"owner_name"`
	IsLiked      bool   `json:"is_liked"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	ShareCount   int    `json:"share_count"`
	DurationMs   int64  `json:"duration_ms"`
	PostedAt     int64  `json:"posted_at"`
}

type feedPageJSON struct {
	Items      []feedItemJSON `json:"items"`
	NextCursor string         `json:"next_cursor"`
}

// ListFeed fetches one ordered page of feed items. An empty cursor asks for
// the head of the feed; pass the previous page's NextCursor to continue.
func (c *Client) ListFeed(ctx context.Context, cursor string, limit int) (FeedPage, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}

	var page feedPageJSON
	if err := c.do(ctx, http.MethodGet, "/v1/feed?"+q.Encode(), nil, &page); err != nil {
		return FeedPage{}, fmt.Errorf("list feed: %w", err)
	}

	out := FeedPage{NextCursor: page.NextCursor}
	for _, it := range page.Items {
		out.Items = append(out.Items, feed.Item{
			ID:           it.ID,
			MediaURI:     it.MediaURI,
			Caption:      it.Caption,
			OwnerID:      it.OwnerID,
			OwnerName:    it.OwnerName,
			IsLiked:      it.IsLiked,
			LikeCount:    it.LikeCount,
			CommentCount: it.CommentCount,
			ShareCount:   it.ShareCount,
			Duration:     time.Duration(it.DurationMs) * time.Millisecond,
			Posted:       time.UnixMilli(it.PostedAt),
		})
	}
	return out, nil
}

// Like marks the item liked and returns the authoritative state.
func (c *Client) Like(ctx context.Context, id string) (LikeResult, error) {
	var res LikeResult
	if err := c.do(ctx, http.MethodPost, "/v1/videos/"+url.PathEscape(id)+"/like", nil, &res); err != nil {
		return LikeResult{}, fmt.Errorf("like %s: %w", id, err)
	}
	return res, nil
}

// Unlike removes the like and returns the authoritative state.
func (c *Client) Unlike(ctx context.Context, id string) (LikeResult, error) {
	var res LikeResult
	if err := c.do(ctx, http.MethodDelete, "/v1/videos/"+url.PathEscape(id)+"/like", nil, &res); err != nil {
		return LikeResult{}, fmt.Errorf("unlike %s: %w", id, err)
	}
	return res, nil
}

// Follow follows the owner and returns the authoritative state.
func (c *Client) Follow(ctx context.Context, ownerID string) (FollowResult, error) {
	var res FollowResult
	if err := c.do(ctx, http.MethodPost, "/v1/owners/"+url.PathEscape(ownerID)+"/follow", nil, &res); err != nil {
		return FollowResult{}, fmt.Errorf("follow %s: %w", ownerID, err)
	}
	return res, nil
}

// Unfollow unfollows the owner and returns the authoritative state.
func (c *Client) Unfollow(ctx context.Context, ownerID string) (FollowResult, error) {
	var res FollowResult
	if err := c.do(ctx, http.MethodDelete, "/v1/owners/"+url.PathEscape(ownerID)+"/follow", nil, &res); err != nil {
		return FollowResult{}, fmt.Errorf("unfollow %s: %w", ownerID, err)
	}
	return res, nil
}

// Share records a share event. Fire-and-forget from the caller's point of
// view; the event ID deduplicates retries server-side.
func (c *Client) Share(ctx context.Context, id, eventID string) error {
	body := map[string]string{"event_id": eventID}
	if err := c.do(ctx, http.MethodPost, "/v1/videos/"+url.PathEscape(id)+"/share", body, nil); err != nil {
		return fmt.Errorf("share %s: %w", id, err)
	}
	return nil
}

// do runs one request through the limiter with auth headers, decoding a JSON
// response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
