package module

import (
	"strconv"
	"strings"
	"time"

	"tubeport/internal/platform/config"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/services/ingest/domain"
	"tubeport/internal/services/ingest/guardrails"
	"tubeport/internal/services/ingest/repo"
	"tubeport/internal/services/ingest/service"
)

// dryRunComments is the default comment cap for dry runs
const dryRunComments = 10

// Options holds the ingest configuration
type Options struct {
	Mode            domain.Mode
	MaxVideos       int
	MaxComments     int
	EnforceDuration bool
	LiveChat        bool
	Timeouts        guardrails.Timeouts

	// optional stores, each used only when its backend is wired
	Ledger        bool
	Analytics     bool
	PublishLedger bool
	PublishedTTL  time.Duration

	YTDLP YTDLPOptions
	Dest  DestOptions
}

// YTDLPOptions configure the provider
type YTDLPOptions struct {
	Bin         string
	CacheDir    string
	Cookies     string
	CacheMaxAge time.Duration
	KeepMedia   bool
	Retries     int
	RetryBase   time.Duration
}

// DestOptions configure the destination client and the operator credential
type DestOptions struct {
	BackendURL  string
	PublishURL  string
	IdentityURL string
	APIKey      string
	Timeout     time.Duration
	Retries     int
	RateLimit   time.Duration
	Email       string
	Password    string
}

// FromConfig reads CORE_INGEST_, CORE_YTDLP_ and CORE_DEST_ keys
func FromConfig(cfg config.Conf) (Options, error) {
	in := cfg.Prefix("CORE_INGEST_")
	dry := in.MayBool("DRY_RUN", false)
	mode, err := domain.ParseMode(in.MayString("MODE", "full"), in.MayString("ASSET_ID", ""), dry)
	if err != nil {
		return Options{}, err
	}

	maxVideos, err := capValue(in, "MAX_VIDEOS", service.All)
	if err != nil {
		return Options{}, err
	}
	defComments := service.All
	if dry {
		defComments = dryRunComments
	}
	maxComments, err := capValue(in, "MAX_COMMENTS", defComments)
	if err != nil {
		return Options{}, err
	}

	yt := cfg.Prefix("CORE_YTDLP_")
	dst := cfg.Prefix("CORE_DEST_")
	o := Options{
		Mode:            mode,
		MaxVideos:       maxVideos,
		MaxComments:     maxComments,
		EnforceDuration: in.MayBool("ENFORCE_DURATION", true),
		LiveChat:        in.MayBool("LIVE_CHAT", true),
		Timeouts: guardrails.Timeouts{
			Video:   in.MayDuration("VIDEO_TIMEOUT", 2*time.Hour),
			Fetch:   in.MayDuration("FETCH_TIMEOUT", 10*time.Minute),
			Upload:  in.MayDuration("UPLOAD_TIMEOUT", 30*time.Minute),
			Publish: in.MayDuration("PUBLISH_TIMEOUT", 5*time.Minute),
			DB:      in.MayDuration("DB_TIMEOUT", 10*time.Second),
		},
		Ledger:        in.MayBool("LEDGER", true),
		Analytics:     in.MayBool("ANALYTICS", true),
		PublishLedger: in.MayBool("PUBLISH_LEDGER", true),
		PublishedTTL:  in.MayDuration("PUBLISHED_TTL", repo.DefaultPublishedTTL),
		YTDLP: YTDLPOptions{
			Bin:         yt.MayString("BIN", "yt-dlp"),
			CacheDir:    yt.MayString("CACHE_DIR", ".cache/tubeport"),
			Cookies:     yt.MayString("COOKIES", ""),
			CacheMaxAge: yt.MayDuration("CACHE_MAX_AGE", 30*24*time.Hour),
			KeepMedia:   yt.MayBool("KEEP_MEDIA", false),
			Retries:     yt.MayInt("RETRIES", 3),
			RetryBase:   yt.MayDuration("RETRY_BASE", 2*time.Second),
		},
		Dest: DestOptions{
			BackendURL:  dst.MayString("BACKEND_URL", ""),
			PublishURL:  dst.MayString("PUBLISH_URL", ""),
			IdentityURL: dst.MayString("IDENTITY_URL", ""),
			APIKey:      dst.MayString("API_KEY", ""),
			Timeout:     dst.MayDuration("TIMEOUT", 60*time.Second),
			Retries:     dst.MayInt("RETRIES", 3),
			RateLimit:   dst.MayDuration("RATE_LIMIT", 500*time.Millisecond),
			Email:       dst.MayString("EMAIL", ""),
			Password:    dst.MayString("PASSWORD", ""),
		},
	}
	if !dry {
		for key, v := range map[string]string{"BACKEND_URL": o.Dest.BackendURL, "API_KEY": o.Dest.APIKey} {
			if strings.TrimSpace(v) == "" {
				return Options{}, perr.WithField(perr.Validationf("CORE_DEST_%s is required outside dry run", key), key)
			}
		}
	}
	return o, nil
}

// capValue reads "all" or a non negative count
func capValue(c config.Conf, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.MayString(key, ""))
	switch strings.ToLower(raw) {
	case "":
		return def, nil
	case "all", "-1":
		return service.All, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, perr.WithField(perr.Validationf("%s must be a count or \"all\", got %q", key, raw), key)
	}
	return n, nil
}
