// Audio Output Configuration
//
// Example TOML:
// [audio]
// backend = "portaudio"
// samplerate = 44100
// channels = 2
// framesperbuffer = 1024
//
// Environment Variables:
// FMSYNTH_AUDIO_BACKEND = "oto"

package audio

import "github.com/spf13/viper"

const (
	vBackend         = "audio.backend"
	vSampleRate      = "audio.samplerate"
	vChannels        = "audio.channels"
	vFramesPerBuffer = "audio.framesperbuffer"
)

// Set audio configuration defaults
func init() {
	viper.BindEnv(vBackend)
	viper.SetDefault(vBackend, "portaudio")
	viper.BindEnv(vSampleRate)
	viper.SetDefault(vSampleRate, SAMPLE_RATE)
	viper.BindEnv(vChannels)
	viper.SetDefault(vChannels, CHANNELS)
	viper.BindEnv(vFramesPerBuffer)
	viper.SetDefault(vFramesPerBuffer, FRAMES_PER_BUFFER)
}

// Audio output configuration interface
type Configurer interface {
	Backend() string
	SampleRate() int
	Channels() int
	FramesPerBuffer() int
}

// A simple type for accessing audio configuration
type Config struct{}

// Returns the configured output backend name
func (c Config) Backend() string {
	return viper.GetString(vBackend)
}

// Returns the output sample rate in Hz
func (c Config) SampleRate() int {
	return viper.GetInt(vSampleRate)
}

// Returns the output channel count
func (c Config) Channels() int {
	return viper.GetInt(vChannels)
}

// Returns the device buffer size in frames
func (c Config) FramesPerBuffer() int {
	return viper.GetInt(vFramesPerBuffer)
}

// Constructs a Config
func NewConfig() Config {
	return Config{}
}

// Construct the configured sink
func NewSink(c Configurer) (Sink, error) {
	construct, ok := backends[c.Backend()]
	if !ok {
		return nil, ErrDeviceUnavailable
	}
	return construct(c)
}
