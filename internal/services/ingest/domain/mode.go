package domain

import (
	"strings"

	perr "tubeport/internal/platform/errors"
)

// ModeKind selects which pipeline stages run
type ModeKind uint8

const (
	// ModeFull creates the asset then publishes comments and live chat
	ModeFull ModeKind = iota
	// ModeVideoOnly creates the asset and stops
	ModeVideoOnly
	// ModeCommentsOnly publishes against an existing asset
	ModeCommentsOnly
)

func (k ModeKind) String() string {
	switch k {
	case ModeVideoOnly:
		return "video_only"
	case ModeCommentsOnly:
		return "comments_only"
	default:
		return "full"
	}
}

// Mode is the run mode. Build it with FullMode, VideoOnlyMode, CommentsOnlyMode or ParseMode;
// the zero value is a live full run
type Mode struct {
	kind    ModeKind
	assetID string
	dry     bool
}

// FullMode runs every stage
func FullMode(dry bool) Mode { return Mode{kind: ModeFull, dry: dry} }

// VideoOnlyMode stops after asset creation
func VideoOnlyMode(dry bool) Mode { return Mode{kind: ModeVideoOnly, dry: dry} }

// CommentsOnlyMode publishes to assetID without fetching media or creating an asset
func CommentsOnlyMode(assetID string, dry bool) (Mode, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return Mode{}, perr.WithField(perr.Validationf("comments only mode needs an existing asset id"), "asset_id")
	}
	return Mode{kind: ModeCommentsOnly, assetID: assetID, dry: dry}, nil
}

// ParseMode builds a Mode from its config name: full, video_only or comments_only
func ParseMode(name, assetID string, dry bool) (Mode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_") {
	case "", "full":
		return FullMode(dry), nil
	case "video_only", "video":
		return VideoOnlyMode(dry), nil
	case "comments_only", "comments":
		return CommentsOnlyMode(assetID, dry)
	}
	return Mode{}, perr.WithField(perr.Validationf("unknown mode %q", name), "mode")
}

// Kind returns the stage selection
func (m Mode) Kind() ModeKind { return m.kind }

// DryRun reports whether remote create and publish calls are suppressed
func (m Mode) DryRun() bool { return m.dry }

// AssetID is the existing asset for comments only runs
func (m Mode) AssetID() string { return m.assetID }

// FetchesVideo reports whether media and metadata are fetched and an asset created
func (m Mode) FetchesVideo() bool { return m.kind != ModeCommentsOnly }

// PublishesComments reports whether comment and live chat stages run
func (m Mode) PublishesComments() bool { return m.kind != ModeVideoOnly }

// NeedsAuth reports whether the run talks to the destination at all
func (m Mode) NeedsAuth() bool { return !m.dry }

func (m Mode) String() string {
	s := m.kind.String()
	if m.dry {
		s += "+dry_run"
	}
	return s
}
