package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tubeport/internal/modkit/repokit"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/store"
	identdom "tubeport/internal/services/ident/domain"
	identsvc "tubeport/internal/services/ident/service"
	"tubeport/internal/services/ingest/domain"
)

type fakeProvider struct {
	videos     map[string]domain.RawVideo
	videoErr   map[string]error
	comments   map[string][]domain.RawComment
	commentErr map[string]error
	chat       map[string][]domain.RawChat
	mediaErr   error

	videoCalls, commentCalls, mediaCalls, discarded int
}

func (f *fakeProvider) FetchVideo(_ context.Context, id string) (domain.RawVideo, error) {
	f.videoCalls++
	if err := f.videoErr[id]; err != nil {
		return domain.RawVideo{}, err
	}
	if v, ok := f.videos[id]; ok {
		return v, nil
	}
	return domain.RawVideo{ID: id, Title: "Video " + id}, nil
}

func (f *fakeProvider) FetchComments(_ context.Context, id string) ([]domain.RawComment, error) {
	f.commentCalls++
	if err := f.commentErr[id]; err != nil {
		return nil, err
	}
	return f.comments[id], nil
}

func (f *fakeProvider) FetchLiveChat(_ context.Context, id string) ([]domain.RawChat, error) {
	return f.chat[id], nil
}

func (f *fakeProvider) FetchMedia(_ context.Context, id string) (string, func(), error) {
	f.mediaCalls++
	if f.mediaErr != nil {
		return "", nil, f.mediaErr
	}
	return "/tmp/" + id + ".mp4", func() { f.discarded++ }, nil
}

type fakeAuth struct {
	calls int
	errs  []error // consumed in order; nil entries succeed
}

func (f *fakeAuth) Authenticate(_ context.Context, cred domain.Credential) (domain.BearerToken, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return domain.BearerToken{}, err
		}
	}
	return domain.BearerToken{JWT: fmt.Sprintf("jwt-%d", f.calls), Refresh: "r"}, nil
}

type fakeAssets struct {
	calls int
	toks  []string
	err   error
}

func (f *fakeAssets) CreateAsset(_ context.Context, tok domain.BearerToken, v domain.NormalizedVideo, path string) (string, error) {
	f.calls++
	f.toks = append(f.toks, tok.JWT)
	if f.err != nil {
		return "", f.err
	}
	return "asset-" + v.ID, nil
}

type fakePublisher struct {
	mu    sync.Mutex
	items []domain.PublishItem
	toks  []string
	// failText fails items whose text contains the key
	failText map[string]error
	// rejectJWT answers Unauthorized for this token
	rejectJWT string
	n         int
}

func (f *fakePublisher) Publish(_ context.Context, tok domain.BearerToken, it domain.PublishItem) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toks = append(f.toks, tok.JWT)
	if f.rejectJWT != "" && tok.JWT == f.rejectJWT {
		return "", perr.Unauthorizedf("expired")
	}
	for k, err := range f.failText {
		if strings.Contains(it.Text, k) {
			return "", err
		}
	}
	f.n++
	f.items = append(f.items, it)
	return fmt.Sprintf("remote-%d", f.n), nil
}

type memLedger struct {
	started  []string
	results  []domain.VideoProcessingResult
	finished *domain.BatchSummary
	err      error
}

func (m *memLedger) StartRun(_ context.Context, runID, mode string, _ time.Time) error {
	m.started = append(m.started, runID+"/"+mode)
	return m.err
}

func (m *memLedger) RecordResult(_ context.Context, _ string, seq int, r domain.VideoProcessingResult) error {
	if seq != len(m.results) {
		return fmt.Errorf("seq %d out of order", seq)
	}
	m.results = append(m.results, r)
	return m.err
}

func (m *memLedger) FinishRun(_ context.Context, s domain.BatchSummary) error {
	m.finished = &s
	return m.err
}

type txOnly struct{}

func (txOnly) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (txOnly) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (txOnly) QueryRow(context.Context, string, ...any) store.Row              { return nil }
func (t txOnly) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(t) }

func ledgerBinder(m *memLedger) repokit.Binder[domain.RunLedger] {
	return repokit.BindFunc[domain.RunLedger](func(repokit.Queryer) domain.RunLedger { return m })
}

type memSink struct{ rows int }

func (m *memSink) WriteResults(_ context.Context, _ string, rs []domain.VideoProcessingResult) error {
	m.rows += len(rs)
	return nil
}

type memPublished struct {
	byAsset map[string]map[string]string
	err     error
}

func (m *memPublished) Published(_ context.Context, asset string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byAsset[asset], nil
}

func (m *memPublished) Remember(_ context.Context, asset, key, remoteID string) error {
	if m.byAsset == nil {
		m.byAsset = map[string]map[string]string{}
	}
	if m.byAsset[asset] == nil {
		m.byAsset[asset] = map[string]string{}
	}
	m.byAsset[asset][key] = remoteID
	return nil
}

type rig struct {
	prov   *fakeProvider
	auth   *fakeAuth
	assets *fakeAssets
	pub    *fakePublisher
	anon   *identsvc.Anonymizer
}

func newRig() *rig {
	return &rig{
		prov: &fakeProvider{
			videos:     map[string]domain.RawVideo{},
			videoErr:   map[string]error{},
			comments:   map[string][]domain.RawComment{},
			commentErr: map[string]error{},
			chat:       map[string][]domain.RawChat{},
		},
		auth:   &fakeAuth{},
		assets: &fakeAssets{},
		pub:    &fakePublisher{},
		anon:   identsvc.New(identsvc.Config{Seed: 7}),
	}
}

func (r *rig) ports() Ports {
	return Ports{Provider: r.prov, Anonymizer: r.anon, Auth: r.auth, Assets: r.assets, Publisher: r.pub}
}

func cfg(m domain.Mode) Config {
	return Config{Mode: m, MaxVideos: All, MaxComments: All, EnforceDuration: true, LiveChat: true}
}

func raw(id, parent, author, text string, order int) domain.RawComment {
	return domain.RawComment{ID: id, ParentID: parent, Text: text, Order: order, Author: identdom.Author{Token: author, Name: author}}
}

func refs(ids ...string) []domain.SourceRef {
	out := make([]domain.SourceRef, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.SourceRef{Line: i + 1, Ref: id, VideoID: id, Category: "Music"})
	}
	return out
}
