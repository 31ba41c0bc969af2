package conf

import (
	"github.com/spf13/viper"

	"github.com/teranos/vspace/namespace"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("digest.length", namespace.DefaultDigestLen)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("render.show_provenance", true)
	v.SetDefault("render.show_exclusions", true)
}
