package module

import (
	"tubeport/internal/platform/config"
)

// Options holds configuration for the anonymizer
type Options struct {
	Persist     bool
	AvatarBase  string
	AvatarQuery string
	MaxSuffix   int
	Seed        uint64
}

// FromConfig reads options with the CORE_IDENT_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_IDENT_")
	return Options{
		Persist:     c.MayBool("PERSIST", true),
		AvatarBase:  c.MayString("AVATAR_BASE", "https://api.dicebear.com/7.x/personas/svg"),
		AvatarQuery: c.MayString("AVATAR_QUERY", "backgroundColor=b6e3f4,c0aede,d1d4f9,ffd5dc,ffdfbf"),
		MaxSuffix:   c.MayInt("MAX_SUFFIX", 999),
		Seed:        uint64(c.MayInt("SEED", 0)),
	}
}
