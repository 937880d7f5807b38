package ytdlp

import (
	"net/url"
	"regexp"
	"strings"

	perr "tubeport/internal/platform/errors"
)

var bareID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID extracts the 11 character video id from a watch, short, embed or youtu.be link, or a bare id
func VideoID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if bareID.MatchString(ref) {
		return ref, nil
	}
	if !strings.Contains(ref, "://") {
		ref = "https://" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", perr.Parsef("video ref %q: %v", ref, err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	var cand string
	switch host {
	case "youtu.be":
		cand = firstSegment(u.Path)
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			cand = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live", "v":
				cand = parts[1]
			}
		}
	}
	if !bareID.MatchString(cand) {
		return "", perr.Parsef("no video id in %q", ref)
	}
	return cand, nil
}

// WatchURL returns the canonical watch url for id
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func firstSegment(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
