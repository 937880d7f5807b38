// Package ytdlp fetches video metadata, comments, live chat and media through the yt-dlp CLI
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/logger"
)

// Options configures a Client
type Options struct {
	Runner   Runner
	CacheDir string
	Cookies  string
	Log      *logger.Logger
}

// Client wraps yt-dlp invocations with on disk caching
type Client struct {
	run     Runner
	dir     string
	cookies string
	log     *logger.Logger
	now     func() time.Time
}

// New builds a Client; a nil Runner uses the yt-dlp binary on PATH
func New(opt Options) *Client {
	c := &Client{
		run:     opt.Runner,
		dir:     opt.CacheDir,
		cookies: opt.Cookies,
		log:     opt.Log,
		now:     time.Now,
	}
	if c.run == nil {
		c.run = ExecRunner{}
	}
	if c.log == nil {
		c.log = logger.Named("ytdlp")
	}
	if c.dir != "" {
		_ = os.MkdirAll(c.dir, 0o755)
	}
	return c
}

func (c *Client) base(extra ...string) []string {
	args := []string{"--no-playlist", "--no-warnings", "--no-progress"}
	if c.cookies != "" {
		args = append(args, "--cookies", c.cookies)
	}
	return append(args, extra...)
}

func (c *Client) exec(ctx context.Context, op string, args ...string) ([]byte, error) {
	start := c.now()
	out, stderr, err := c.run.Run(ctx, args...)
	if err != nil {
		err = classify(op, err, string(stderr))
		c.log.Debug().Str("op", op).Dur("took", time.Since(start)).Err(err).Msg("yt-dlp failed")
		return nil, err
	}
	c.log.Debug().Str("op", op).Dur("took", time.Since(start)).Int("bytes", len(out)).Msg("yt-dlp ok")
	return out, nil
}

// FetchVideo returns metadata for id without downloading media
func (c *Client) FetchVideo(ctx context.Context, id string) (Video, error) {
	out, err := c.exec(ctx, "video", c.base("-J", "--skip-download", WatchURL(id))...)
	if err != nil {
		return Video{}, err
	}
	var v Video
	if err := json.Unmarshal(out, &v); err != nil {
		return Video{}, perr.Wrapf(err, perr.ErrorCodeJSON, "decode video %s", id)
	}
	if v.ID == "" {
		v.ID = id
	}
	return v, nil
}

// FetchComments returns the flat comment list in yt-dlp order, served from cache when present
func (c *Client) FetchComments(ctx context.Context, id string) ([]Comment, error) {
	path := c.cachePath(commentsPrefix, id)
	if c.dir != "" {
		var cached commentsCache
		if ok, err := readCache(path, &cached); err == nil && ok {
			c.log.Debug().Str("video", id).Int("comments", len(cached.Comments)).Msg("comments from cache")
			return cached.Comments, nil
		}
	}
	out, err := c.exec(ctx, "comments", c.base("-J", "--skip-download", "--write-comments", WatchURL(id))...)
	if err != nil {
		return nil, err
	}
	var doc commentsDoc
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "decode comments %s", id)
	}
	if c.dir != "" {
		if err := writeCache(path, commentsCache{Comments: doc.Comments}); err != nil {
			c.log.Warn().Err(err).Str("video", id).Msg("comments cache write")
		}
	}
	return doc.Comments, nil
}

// FetchLiveChat returns the live chat replay; a video without one yields no lines
func (c *Client) FetchLiveChat(ctx context.Context, id string) ([]ChatLine, error) {
	if c.dir == "" {
		return nil, perr.InvalidArgf("live chat needs a cache dir")
	}
	path := c.cachePath(chatPrefix, id)
	var cached chatCache
	if ok, err := readCache(path, &cached); err == nil && ok {
		return cached.LiveChats, nil
	}

	tmpl := filepath.Join(c.dir, "%(id)s.%(ext)s")
	_, err := c.exec(ctx, "live_chat", c.base(
		"--skip-download", "--write-subs", "--sub-langs", "live_chat", "--sub-format", "vtt",
		"-o", tmpl, WatchURL(id),
	)...)
	if err != nil {
		return nil, err
	}

	vtt := filepath.Join(c.dir, id+".live_chat.vtt")
	f, err := os.Open(vtt)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lines, err := ParseLiveChatVTT(f)
	_ = f.Close()
	_ = os.Remove(vtt)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeParse, "live chat %s", id)
	}
	if err := writeCache(path, chatCache{LiveChats: lines}); err != nil {
		c.log.Warn().Err(err).Str("video", id).Msg("live chat cache write")
	}
	return lines, nil
}

// Download fetches the 360p mp4 rendition into the cache dir and returns its path.
// An existing file is reused
func (c *Client) Download(ctx context.Context, id string) (string, error) {
	if c.dir == "" {
		return "", perr.InvalidArgf("download needs a cache dir")
	}
	path := filepath.Join(c.dir, id+".mp4")
	if st, err := os.Stat(path); err == nil && st.Size() > 0 {
		return path, nil
	}
	_, err := c.exec(ctx, "download", c.base("-f", "18", "-o", path, WatchURL(id))...)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "download %s produced no file", id)
	}
	return path, nil
}
