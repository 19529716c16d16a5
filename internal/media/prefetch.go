// Package media prepares feed positions for instant playback start by
// spooling the leading bytes of each media URI to local disk. Preparation is
// the asynchronous half of the playback controller's Buffering state.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/finchley/reel/internal/logging"
)

// DefaultHeadBytes is how much of the clip is spooled ahead of playback.
// Enough to cover the moov atom and the first seconds of most encodes.
const DefaultHeadBytes = 512 * 1024

// Prefetcher spools media heads into a directory. Safe for concurrent use:
// each Prepare works on its own file.
type Prefetcher struct {
	client    *http.Client
	spoolDir  string
	headBytes int64
}

// New creates a prefetcher spooling into dir.
func New(dir string, timeout time.Duration) *Prefetcher {
	return &Prefetcher{
		client:    &http.Client{Timeout: timeout},
		spoolDir:  dir,
		headBytes: DefaultHeadBytes,
	}
}

// SetHeadKB overrides the spooled head size. Zero or negative keeps the
// default.
func (p *Prefetcher) SetHeadKB(kb int) {
	if kb > 0 {
		p.headBytes = int64(kb) * 1024
	}
}

// spoolPath is the on-disk location for an item's head.
func (p *Prefetcher) spoolPath(id string) string {
	return filepath.Join(p.spoolDir, id+".head")
}

// Prepare fetches the leading bytes of mediaURI into the spool and returns
// the local path. Idempotent: an existing non-empty spool file is reused.
func (p *Prefetcher) Prepare(ctx context.Context, id, mediaURI string) (string, error) {
	path := p.spoolPath(id)
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		return path, nil
	}

	if err := os.MkdirAll(p.spoolDir, 0755); err != nil {
		return "", fmt.Errorf("create spool dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURI, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", p.headBytes-1))

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch media head: %w", err)
	}
	defer resp.Body.Close()

	// 206 when the origin honors the range, 200 when it doesn't; either way
	// read at most headBytes.
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status)
	}

	// Write to a temp name first so a cancelled prepare never leaves a
	// half-spooled file that Prepare would later treat as complete.
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}

	_, err = io.Copy(f, io.LimitReader(resp.Body, p.headBytes))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("spool media head: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalize spool file: %w", err)
	}

	logging.Debug("spooled media head", "id", id, "path", path)
	return path, nil
}

// Release drops the spooled head for an item. Normal resource reclamation;
// backward positions are not proactively released.
func (p *Prefetcher) Release(id string) {
	if err := os.Remove(p.spoolPath(id)); err != nil && !os.IsNotExist(err) {
		logging.Warn("release spool", "id", id, "err", err)
	}
}
