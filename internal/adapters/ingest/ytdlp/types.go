package ytdlp

// Video is the subset of `yt-dlp -J` output the pipeline reads
type Video struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Tags        []string           `json:"tags"`
	Categories  []string           `json:"categories"`
	Duration    float64            `json:"duration"`
	Ext         string             `json:"ext"`
	Subtitles   map[string][]Track `json:"subtitles"`
}

// Track is one subtitle rendition
type Track struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// Comment is one entry of the flat comment list; Parent is "root" for top level comments
type Comment struct {
	ID              string `json:"id"`
	Parent          string `json:"parent"`
	Text            string `json:"text"`
	Author          string `json:"author"`
	AuthorID        string `json:"author_id"`
	AuthorThumbnail string `json:"author_thumbnail"`
	Timestamp       int64  `json:"timestamp"`
	LikeCount       int64  `json:"like_count"`
}

// ChatLine is one live chat cue
type ChatLine struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Message string `json:"message"`
	Offset  int    `json:"offset_s"`
}

// rootParent marks top level comments in yt-dlp output
const rootParent = "root"

// ParentID returns the parent comment id, or "" for top level comments
func (c Comment) ParentID() string {
	if c.Parent == "" || c.Parent == rootParent {
		return ""
	}
	return c.Parent
}

type commentsDoc struct {
	ID       string    `json:"id"`
	Comments []Comment `json:"comments"`
}

type commentsCache struct {
	Comments []Comment `json:"comments"`
}

type chatCache struct {
	LiveChats []ChatLine `json:"live_chats"`
}
