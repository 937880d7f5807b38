// Package source adapts the yt-dlp and destination clients to the ingest ports
package source

import (
	"context"
	"os"
	"strings"
	"time"

	"tubeport/internal/adapters/ingest/ytdlp"
	identdom "tubeport/internal/services/ident/domain"
	"tubeport/internal/services/ingest/domain"
)

// anonymousChat stands in for live chat lines that carry no author
const anonymousChat = "livechat:anonymous"

// Fetcher is the yt-dlp surface the provider needs; *ytdlp.Client satisfies it
type Fetcher interface {
	FetchVideo(ctx context.Context, id string) (ytdlp.Video, error)
	FetchComments(ctx context.Context, id string) ([]ytdlp.Comment, error)
	FetchLiveChat(ctx context.Context, id string) ([]ytdlp.ChatLine, error)
	Download(ctx context.Context, id string) (string, error)
}

// Provider implements domain.Provider over yt-dlp
type Provider struct {
	f         Fetcher
	retry     Retry
	keepMedia bool
}

var _ domain.Provider = (*Provider)(nil)

// NewProvider wraps f. With keepMedia the downloaded file stays in the cache
// after the asset is created, otherwise it is removed
func NewProvider(f Fetcher, retry Retry, keepMedia bool) *Provider {
	return &Provider{f: f, retry: retry, keepMedia: keepMedia}
}

func (p *Provider) FetchVideo(ctx context.Context, id string) (domain.RawVideo, error) {
	var v ytdlp.Video
	err := p.retry.do(ctx, func(ctx context.Context) (err error) {
		v, err = p.f.FetchVideo(ctx, id)
		return err
	})
	if err != nil {
		return domain.RawVideo{}, err
	}
	out := domain.RawVideo{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Keywords:    v.Tags,
		Duration:    time.Duration(v.Duration * float64(time.Second)),
	}
	if out.ID == "" {
		out.ID = id
	}
	if len(v.Categories) > 0 {
		out.Category = v.Categories[0]
	}
	return out, nil
}

func (p *Provider) FetchComments(ctx context.Context, id string) ([]domain.RawComment, error) {
	var cs []ytdlp.Comment
	err := p.retry.do(ctx, func(ctx context.Context) (err error) {
		cs, err = p.f.FetchComments(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawComment, 0, len(cs))
	for i, c := range cs {
		out = append(out, domain.RawComment{
			ID:       c.ID,
			Author:   identdom.Author{Token: c.AuthorID, Name: c.Author, Avatar: c.AuthorThumbnail},
			Text:     c.Text,
			ParentID: c.ParentID(),
			Order:    i,
		})
	}
	return out, nil
}

func (p *Provider) FetchLiveChat(ctx context.Context, id string) ([]domain.RawChat, error) {
	var lines []ytdlp.ChatLine
	err := p.retry.do(ctx, func(ctx context.Context) (err error) {
		lines, err = p.f.FetchLiveChat(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawChat, 0, len(lines))
	for i, l := range lines {
		au := identdom.Author{Token: anonymousChat}
		if name := strings.TrimSpace(l.Author); name != "" {
			au = identdom.Author{Token: "livechat:" + name, Name: name}
		}
		out = append(out, domain.RawChat{
			ID:     l.ID,
			Author: au,
			Text:   l.Message,
			Offset: time.Duration(l.Offset) * time.Second,
			Order:  i,
		})
	}
	return out, nil
}

// FetchMedia downloads the upload rendition. discard is never nil on success
func (p *Provider) FetchMedia(ctx context.Context, id string) (string, func(), error) {
	var path string
	err := p.retry.do(ctx, func(ctx context.Context) (err error) {
		path, err = p.f.Download(ctx, id)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	if p.keepMedia {
		return path, func() {}, nil
	}
	return path, func() { _ = os.Remove(path) }, nil
}
