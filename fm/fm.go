// Frequency modulation oscillator

package fm

import "math"

// Parameters for a single FM voice, fixed for the lifetime
// of one play invocation
type Params struct {
	CarrierHz          float64 // Carrier frequency in Hz
	ModulatorHz        float64 // Modulator frequency in Hz
	ModulatorAmplitude float64 // Modulation depth
	SampleRate         int     // Output sample rate in Hz
}

// Radians advanced per sample for a frequency in Hz
func (p Params) velocity(hz float64) float64 {
	return hz * (2 * math.Pi / float64(p.SampleRate))
}

// Carrier angular velocity in radians per sample
func (p Params) CarrierVelocity() float64 {
	return p.velocity(p.CarrierHz)
}

// Modulator angular velocity in radians per sample
func (p Params) ModulatorVelocity() float64 {
	return p.velocity(p.ModulatorHz)
}

// Generates samples of a frequency modulated sine tone. The sample
// index advances by exactly one per generated sample and is never
// reset for the lifetime of the oscillator. The index is a uint64 so
// wraparound is not a practical concern at audio rates.
type Oscillator struct {
	carrier   float64 // Carrier angular velocity
	modulator float64 // Modulator angular velocity
	amplitude float64 // Modulation depth
	t         uint64  // Running sample index
}

// Produce the sample at the current index and advance the index
func (o *Oscillator) Next() float64 {
	t := float64(o.t)
	o.t++
	return math.Sin(o.carrier*t + o.amplitude*math.Sin(o.modulator*t))
}

// Fill a frame slice with consecutive samples
func (o *Oscillator) Fill(frames []float64) {
	for i := range frames {
		frames[i] = o.Next()
	}
}

// Returns the current running sample index
func (o *Oscillator) Index() uint64 {
	return o.t
}

// Construct a new oscillator from voice parameters
func NewOscillator(p Params) *Oscillator {
	return &Oscillator{
		carrier:   p.CarrierVelocity(),
		modulator: p.ModulatorVelocity(),
		amplitude: p.ModulatorAmplitude,
	}
}
