package event

import (
	"encoding/json"
	"time"
)

const (
	// Inbound control events
	PlayEvent string = "play"
	StopEvent string = "stop"
	// Broadcast state events
	PlayingEvent string = "playing"
	StoppedEvent string = "stopped"
	ErrorEvent   string = "error"
)

type Reader interface {
	Read() ([]byte, error)
}

type Writer interface {
	Write(b []byte) (int, error)
}

type Closer interface {
	Close() error
}

type ReadWriteCloser interface {
	Reader
	Writer
	Closer
}

type Event struct {
	Type    string          `json:"type"`
	Created time.Time       `json:"created"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload of a play event, one voice per event
type PlayPayload struct {
	Carrier   float64 `json:"carrier"`             // Carrier frequency in Hz
	Modulator float64 `json:"modulator"`           // Modulator frequency in Hz
	Amplitude float64 `json:"amplitude"`           // Modulation depth
	Seconds   float64 `json:"seconds,omitempty"`   // Auto stop after this many seconds, 0 plays until stopped
}

// Payload of a stop event, a blank voice ID stops every voice
type StopPayload struct {
	VoiceID string `json:"voiceID,omitempty"`
}

// Payload of a playing or stopped broadcast
type VoicePayload struct {
	VoiceID string `json:"voiceID"`
}

// Payload of an error broadcast
type ErrorPayload struct {
	Error string `json:"error"`
}
