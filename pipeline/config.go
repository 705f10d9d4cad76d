// Pipeline Configuration
//
// Example TOML:
// [pipeline]
// buffercount = 2
// acquiretimeout = "0s"
//
// Environment Variables:
// FMSYNTH_PIPELINE_BUFFERCOUNT = 3

package pipeline

import (
	"time"

	"github.com/spf13/viper"
)

const (
	vBufferCount    = "pipeline.buffercount"
	vAcquireTimeout = "pipeline.acquiretimeout"
)

// Set pipeline configuration defaults
func init() {
	viper.BindEnv(vBufferCount)
	viper.SetDefault(vBufferCount, 2)
	viper.BindEnv(vAcquireTimeout)
	viper.SetDefault(vAcquireTimeout, time.Duration(0))
}

// Pipeline configuration interface
type Configurer interface {
	BufferCount() int
	AcquireTimeout() time.Duration
}

// A simple type for accessing pipeline configuration
type Config struct{}

// Returns the in flight buffer capacity. Two trades latency for
// underrun risk.
func (c Config) BufferCount() int {
	return viper.GetInt(vBufferCount)
}

// Returns the bounded gate wait, zero waits forever
func (c Config) AcquireTimeout() time.Duration {
	return viper.GetDuration(vAcquireTimeout)
}

// Constructs a Config
func NewConfig() Config {
	return Config{}
}
