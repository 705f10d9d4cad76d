package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"fmsynth/event"
	"fmsynth/run"
	"fmsynth/sockets/unix"

	"github.com/spf13/cobra"
)

var (
	playCmdCarrier   float64
	playCmdModulator float64
	playCmdAmplitude float64
	playCmdSeconds   float64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a voice",
	Run: func(cmd *cobra.Command, args []string) {
		config := unix.NewConfig()
		client := unix.NewClient()
		if err := client.Connect(config.Address()); err != nil {
			fmt.Println("Unable to connect to synth:", err)
			return
		}
		defer client.Close()
		payload, err := json.Marshal(&event.PlayPayload{
			Carrier:   playCmdCarrier,
			Modulator: playCmdModulator,
			Amplitude: playCmdAmplitude,
			Seconds:   playCmdSeconds,
		})
		if err != nil {
			fmt.Println("Unable to create play payload:", err)
			return
		}
		body, err := json.Marshal(&event.Event{
			Type:    event.PlayEvent,
			Created: time.Now().UTC(),
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			fmt.Println("Unable to create play event:", err)
			return
		}
		if _, err := client.Write(body); err != nil {
			fmt.Println("Unable to send play event:", err)
			return
		}
		exitC := make(chan bool)
		go func() {
			defer close(exitC)
			for {
				b, err := client.Read()
				if err != nil {
					return
				}
				e := &event.Event{}
				if err := json.Unmarshal(b, e); err != nil {
					fmt.Println("error reading event:", err)
					continue
				}
				switch e.Type {
				case event.PlayingEvent:
					payload := &event.VoicePayload{}
					if err := json.Unmarshal(e.Payload, payload); err == nil {
						fmt.Println("Playing voice:", payload.VoiceID)
					}
					return
				case event.ErrorEvent:
					payload := &event.ErrorPayload{}
					if err := json.Unmarshal(e.Payload, payload); err != nil {
						fmt.Println("Unable to process error")
						return
					}
					fmt.Println("Error playing voice:", payload.Error)
					return
				}
			}
		}()
		deadline := time.Second * 30
		select {
		case <-exitC:
			return
		case <-run.QuitC():
			return
		case <-time.After(deadline):
			fmt.Println("no response from synth after", deadline)
			return
		}
	},
}

func init() {
	playCmd.PersistentFlags().Float64VarP(
		&playCmdCarrier,
		"carrier",
		"f",
		440,
		"Carrier frequency in Hz")
	playCmd.PersistentFlags().Float64VarP(
		&playCmdModulator,
		"modulator",
		"m",
		679,
		"Modulator frequency in Hz")
	playCmd.PersistentFlags().Float64VarP(
		&playCmdAmplitude,
		"amplitude",
		"a",
		0.8,
		"Modulation depth")
	playCmd.PersistentFlags().Float64VarP(
		&playCmdSeconds,
		"seconds",
		"s",
		0,
		"Stop the voice after this many seconds, 0 plays until stopped")
}
