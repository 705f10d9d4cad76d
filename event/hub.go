package event

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"fmsynth/audio"
	"fmsynth/fm"
	"fmsynth/logger"
	"fmsynth/voice"

	"github.com/rs/xid"
)

// Global hub
var hub *Hub

// Initialise package with a global hub owning its own voice
// collection
func init() {
	hub = NewHub(voice.NewVoices(0))
}

// Event decoder interface
type Decoder interface {
	Decode(v interface{}) error
}

// Type for holding a list of hub clients
type Clients map[string]ReadWriteCloser

// Get a client by id
func (c Clients) Get(id string) ReadWriteCloser {
	s, ok := c[id]
	if !ok {
		return nil
	}
	return s
}

// Add client convenience method returning the client id
func (c Clients) Add(id string, rwc ReadWriteCloser) string {
	c[id] = rwc
	return id
}

// Delete client convenience method
func (c Clients) Del(id string) {
	delete(c, id)
}

type Hub struct {
	// Unexported Fields
	voices      *voice.Voices   // Voice collection driven by events
	clientsLock *sync.Mutex     // Client lock
	clients     Clients         // Event clients
	decoder     Decoder         // Event Decoder
	eventsC     chan []byte     // Event processor channel
	closeWg     *sync.WaitGroup // Wait for internal coroutines to exit
	closeC      chan bool       // Closes internal coroutines
}

// Goroutine for reading client events
func (h *Hub) read(id string, rwc ReadWriteCloser) {
	logger.Debug("start event hub client read")
	defer logger.Debug("exit event hub client read")
	h.closeWg.Add(1)
	defer h.closeWg.Done()
	defer h.DelClient(id) // Remove the client from the hub
	for {
		b, err := rwc.Read()
		if err != nil {
			if err != io.EOF {
				logger.WithError(err).Error("unexpected hub read error")
			}
			return // Exit on any error
		}
		h.eventsC <- b
	}
}

// Add a client to the hub and start reading from it
// returns the client id
func AddClient(rwc ReadWriteCloser) string { return hub.AddClient(rwc) }
func (h *Hub) AddClient(rwc ReadWriteCloser) string {
	id := xid.New().String()
	h.clientsLock.Lock()
	h.clients.Add(id, rwc)
	h.clientsLock.Unlock()
	go h.read(id, rwc)
	return id
}

// Remove a client from the hub
func DelClient(id string) { hub.DelClient(id) }
func (h *Hub) DelClient(id string) {
	h.clientsLock.Lock()
	h.clients.Del(id)
	h.clientsLock.Unlock()
}

// Broadcast event to all connected clients
func Broadcast(b []byte) { hub.Broadcast(b) }
func (h *Hub) Broadcast(b []byte) {
	h.clientsLock.Lock()
	for _, client := range h.clients {
		if _, err := client.Write(b); err != nil {
			logger.WithError(err).Error("failed to write to client")
		}
	}
	h.clientsLock.Unlock()
}

// Broadcast a typed event with a payload
func (h *Hub) broadcast(typ string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("failed to marshal event payload")
		return
	}
	body, err := json.Marshal(&Event{
		Type:    typ,
		Created: time.Now().UTC(),
		Payload: json.RawMessage(raw),
	})
	if err != nil {
		logger.WithError(err).Error("failed to marshal event")
		return
	}
	h.Broadcast(body)
}

// Goroutine to process events from clients
func ProcessEvents() { hub.ProcessEvents() }
func (h *Hub) ProcessEvents() {
	logger.Debug("start event hub processor")
	defer logger.Debug("exit event hub processor")
	h.closeWg.Add(1)
	defer h.closeWg.Done()
	for {
		select {
		case b := <-h.eventsC:
			go func() {
				h.closeWg.Add(1)
				defer h.closeWg.Done()
				if err := h.handle(b); err != nil {
					logger.WithFields(logger.F{
						"event": string(b),
					}).WithError(err).Error("failed to handle event")
					h.broadcast(ErrorEvent, &ErrorPayload{Error: err.Error()})
				}
			}()
		case <-h.closeC:
			return
		}
	}
}

// Decode raw byte data into interface, defaults to json decoder
func (h *Hub) decode(b []byte, v interface{}) error {
	decoder := h.decoder
	if decoder == nil {
		decoder = json.NewDecoder(bytes.NewReader(b))
	}
	return decoder.Decode(v)
}

// Handles a received event
func (h *Hub) handle(b []byte) error {
	logger.WithField("event", string(b)).Debug("handle event")
	defer logger.WithField("event", string(b)).Debug("handled event")
	event := &Event{}
	if err := h.decode(b, event); err != nil {
		return err
	}
	var err error
	switch event.Type {
	case PlayEvent:
		err = h.play(event)
	case StopEvent:
		err = h.stop(event)
	}
	return err
}

// Play event handler, starts one new voice. Voices are independent,
// a play while others sound simply adds to the polyphony.
func (h *Hub) play(event *Event) error {
	payload := &PlayPayload{}
	if err := json.Unmarshal(event.Payload, payload); err != nil {
		return err
	}
	params := fm.Params{
		CarrierHz:          payload.Carrier,
		ModulatorHz:        payload.Modulator,
		ModulatorAmplitude: payload.Amplitude,
		SampleRate:         audio.NewConfig().SampleRate(),
	}
	v, err := h.voices.Play(params)
	if err != nil {
		return err
	}
	h.broadcast(PlayingEvent, &VoicePayload{VoiceID: v.ID()})
	if payload.Seconds > 0 {
		go h.stopAfter(v, time.Duration(payload.Seconds*float64(time.Second)))
	}
	return nil
}

// Goroutine stopping a voice after a fixed play duration
func (h *Hub) stopAfter(v *voice.Voice, d time.Duration) {
	h.closeWg.Add(1)
	defer h.closeWg.Done()
	select {
	case <-time.After(d):
		v.Stop()
		<-v.Done()
	case <-v.Done():
	case <-h.closeC:
		return
	}
	h.broadcast(StoppedEvent, &VoicePayload{VoiceID: v.ID()})
}

// Stop event handler, a blank voice ID stops everything
func (h *Hub) stop(event *Event) error {
	payload := &StopPayload{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, payload); err != nil {
			return err
		}
	}
	if payload.VoiceID != "" {
		if h.voices.Stop(payload.VoiceID) {
			h.broadcast(StoppedEvent, &VoicePayload{VoiceID: payload.VoiceID})
		}
		return nil
	}
	h.voices.StopAll()
	h.broadcast(StoppedEvent, &VoicePayload{})
	return nil
}

// Closes the event hub, stopping every voice first
func Close() error { return hub.Close() }
func (h *Hub) Close() error {
	logger.Debug("close event hub")
	defer logger.Info("closed event hub")
	h.voices.StopAll()
	close(h.closeC)
	h.closeWg.Wait() // Wait for internal routines to exit
	return nil
}

// Constructor for the Event Hub
func NewHub(voices *voice.Voices) *Hub {
	return &Hub{
		voices:      voices,
		clientsLock: &sync.Mutex{},
		clients:     make(Clients),
		eventsC:     make(chan []byte),
		closeWg:     &sync.WaitGroup{},
		closeC:      make(chan bool),
	}
}
