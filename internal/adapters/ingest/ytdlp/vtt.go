package ytdlp

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var cueTime = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})\.(\d{3})\s*-->`)

// ParseLiveChatVTT reads live chat cues. Each cue is a timing line, an optional
// "Author:" line, then one or more message lines. Cues without a message are dropped
func ParseLiveChatVTT(r io.Reader) ([]ChatLine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		out   []ChatLine
		block []string
	)
	flush := func() {
		if line, ok := parseCue(block); ok {
			line.ID = "livechat_" + strconv.Itoa(len(out))
			out = append(out, line)
		}
		block = block[:0]
	}
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(l) == "" {
			flush()
			continue
		}
		block = append(block, l)
	}
	flush()
	return out, sc.Err()
}

func parseCue(block []string) (ChatLine, bool) {
	// cue identifiers may precede the timing line
	for len(block) > 0 && !cueTime.MatchString(strings.TrimSpace(block[0])) {
		block = block[1:]
	}
	if len(block) < 2 {
		return ChatLine{}, false
	}
	m := cueTime.FindStringSubmatch(strings.TrimSpace(block[0]))
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])

	body := block[1:]
	author := ""
	if first := strings.TrimSpace(body[0]); strings.HasSuffix(first, ":") && len(first) > 1 {
		author = strings.TrimSpace(strings.TrimSuffix(first, ":"))
		body = body[1:]
	}
	msg := strings.TrimSpace(strings.Join(body, "\n"))
	if msg == "" {
		return ChatLine{}, false
	}
	return ChatLine{Author: author, Message: msg, Offset: h*3600 + mi*60 + s}, true
}
