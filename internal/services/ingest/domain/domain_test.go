package domain

import (
	"encoding/json"
	"testing"
	"time"

	perr "tubeport/internal/platform/errors"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		name, asset string
		dry         bool
		want        ModeKind
		fetches     bool
		publishes   bool
		str         string
	}{
		{"", "", false, ModeFull, true, true, "full"},
		{" FULL ", "", true, ModeFull, true, true, "full+dry_run"},
		{"video-only", "", false, ModeVideoOnly, true, false, "video_only"},
		{"video", "", true, ModeVideoOnly, true, false, "video_only+dry_run"},
		{"comments_only", " a1 ", false, ModeCommentsOnly, false, true, "comments_only"},
	}
	for _, tc := range cases {
		m, err := ParseMode(tc.name, tc.asset, tc.dry)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tc.name, err)
		}
		if m.Kind() != tc.want || m.FetchesVideo() != tc.fetches || m.PublishesComments() != tc.publishes {
			t.Fatalf("ParseMode(%q) = %+v", tc.name, m)
		}
		if m.String() != tc.str || m.DryRun() != tc.dry || m.NeedsAuth() == tc.dry {
			t.Fatalf("ParseMode(%q) string/dry = %q/%v", tc.name, m.String(), m.DryRun())
		}
	}

	m, _ := ParseMode("comments", " a1 ", false)
	if m.AssetID() != "a1" {
		t.Fatalf("asset id = %q", m.AssetID())
	}
}

func TestParseMode_Rejects(t *testing.T) {
	for _, tc := range []struct{ name, asset, field string }{
		{"comments_only", "  ", "asset_id"},
		{"everything", "", "mode"},
	} {
		_, err := ParseMode(tc.name, tc.asset, false)
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != tc.field {
			t.Fatalf("ParseMode(%q, %q) = %v", tc.name, tc.asset, err)
		}
	}
}

func TestStatus_Text(t *testing.T) {
	b, err := json.Marshal(map[string]Status{"s": StatusPartialFailure})
	if err != nil || string(b) != `{"s":"partial_failure"}` {
		t.Fatalf("marshal = %s, %v", b, err)
	}

	var s Status
	if err := s.UnmarshalText([]byte("skipped")); err != nil || s != StatusSkipped {
		t.Fatalf("unmarshal skipped = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("exploded")); err != nil || s != StatusFailed {
		t.Fatalf("unknown names should read as failed, got %v", s)
	}
	if Status(9).String() != "unknown" {
		t.Fatalf("out of range status = %q", Status(9).String())
	}
}

func TestBatchSummary_FinishSumsResults(t *testing.T) {
	var b BatchSummary
	b.Record(VideoProcessingResult{Status: StatusSuccess, Counts: Counts{
		CommentsTotal: 5, WithTimestamp: 3, WithoutTimestamp: 2, CommentsPublished: 3, LiveChatTotal: 4, LiveChatPublished: 4,
	}})
	b.Record(VideoProcessingResult{Status: StatusPartialFailure, Counts: Counts{
		CommentsTotal: 2, WithTimestamp: 2, CommentsPublished: 1, CommentsFailed: 1, LiveChatFailed: 2, AlreadyPublished: 1,
	}})
	b.Record(VideoProcessingResult{Status: StatusSkipped})

	if b.Totals.Videos != 0 {
		t.Fatalf("totals must stay empty until Finish")
	}
	end := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.Finish(end)

	want := Totals{
		Videos: 3, Succeeded: 1, Partial: 1, Skipped: 1,
		CommentsTotal: 7, WithTimestamp: 5, WithoutTimestamp: 2,
		CommentsPublished: 4, AlreadyPublished: 1,
		LiveChatTotal: 4, LiveChatPublished: 4, PublishFailures: 3,
	}
	if b.Totals != want {
		t.Fatalf("totals = %+v\nwant     %+v", b.Totals, want)
	}
	if !b.Finished.Equal(end) || b.Failed() {
		t.Fatalf("finished/failed = %v/%v", b.Finished, b.Failed())
	}

	b.Record(VideoProcessingResult{Status: StatusFailed})
	b.Finish(end)
	if !b.Failed() || b.Totals.Videos != 4 {
		t.Fatalf("refinish should recount: %+v", b.Totals)
	}
}
