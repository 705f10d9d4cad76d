package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Configuration defaults
func init() {
	viper.SetTypeByDefaultValue(true)
	viper.SetConfigType("toml")
	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/fmsynth")
	viper.AddConfigPath("$HOME/.config/fmsynth")
	viper.SetEnvPrefix("FMSYNTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Read configuration, an explicit path takes precedence over the
// search paths when it exists
func Read(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			viper.SetConfigFile(path)
		}
	}
	return viper.ReadInConfig()
}
