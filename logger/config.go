// Logger Configuration
//
// Example TOML:
// [log]
// level = "debug"
// logfile = "/var/log/fmsynth.log"
// format = "json"
//
// Environment Variables:
// FMSYNTH_LOG_LEVEL = "info"
// FMSYNTH_LOG_FORMAT = "json"
//
// CLI Flags:
// -l/--level info

package logger

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Set logging configuration defaults
func init() {
	viper.BindEnv("LOG.LEVEL")
	viper.SetDefault("log.level", "info")
	viper.BindEnv("LOG.FORMAT")
	viper.SetDefault("log.format", "text")
	viper.BindEnv("LOG.LOGFILE")
	viper.SetDefault("log.logfile", "")
	viper.SetDefault("log.console_output", true)
}

// Logger configuration interface
type Configurer interface {
	Level() string
	Format() string
	LogFile() string
	ConsoleOutput() bool
}

// Allows us to bind a cli flag to a viper config option for log.level
func BindLogLevelFlag(flag *pflag.Flag) {
	viper.BindPFlag("log.level", flag)
}

// A simple type for accessing logging configuration
type Config struct{}

// Returns the logging verbosity level, binds to environment variable
func (c Config) Level() string {
	return viper.GetString("log.level")
}

// Returns absolute path to logfile
func (c Config) LogFile() string {
	return viper.GetString("log.logfile")
}

// Returns logging format to use
func (c Config) Format() string {
	return viper.GetString("log.format")
}

// Returns console log output bool
func (c Config) ConsoleOutput() bool {
	return viper.GetBool("log.console_output")
}

// Constructs a Config
func NewConfig() Config {
	return Config{}
}
