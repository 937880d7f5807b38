package ytdlp

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	commentsPrefix = "comments_cache_"
	chatPrefix     = "livechat_cache_"
)

// DefaultCacheMaxAge is the retention used by CleanCache when none is given
const DefaultCacheMaxAge = 30 * 24 * time.Hour

func (c *Client) cachePath(prefix, id string) string {
	return filepath.Join(c.dir, prefix+id+".json")
}

// readCache decodes path into v; a missing file reports false
func readCache(path string, v any) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		// corrupt entries are refetched
		_ = os.Remove(path)
		return false, nil
	}
	return true, nil
}

// writeCache writes through a temp file and renames into place
func writeCache(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// CleanCache removes cached comments, chats, and downloads older than maxAge.
// maxAge <= 0 uses DefaultCacheMaxAge
func (c *Client) CleanCache(maxAge time.Duration) (int, error) {
	if c.dir == "" {
		return 0, nil
	}
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	cutoff := c.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !cacheFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(c.dir, e.Name())) == nil {
			removed++
		}
	}
	if removed > 0 {
		c.log.Info().Int("removed", removed).Dur("max_age", maxAge).Msg("cache cleanup")
	}
	return removed, nil
}

func cacheFile(name string) bool {
	switch {
	case strings.HasPrefix(name, commentsPrefix), strings.HasPrefix(name, chatPrefix):
		return strings.HasSuffix(name, ".json")
	case strings.HasSuffix(name, ".mp4"), strings.HasSuffix(name, ".vtt"), strings.HasSuffix(name, ".part"):
		return true
	}
	return false
}
