package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"fmsynth/event"
	"fmsynth/sockets/unix"

	"github.com/spf13/cobra"
)

var stopCmdVoiceID string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop one voice, or every voice",
	Run: func(cmd *cobra.Command, args []string) {
		config := unix.NewConfig()
		client := unix.NewClient()
		if err := client.Connect(config.Address()); err != nil {
			fmt.Println("Unable to connect to synth:", err)
			return
		}
		defer client.Close()
		payload, err := json.Marshal(&event.StopPayload{
			VoiceID: stopCmdVoiceID,
		})
		if err != nil {
			fmt.Println("Unable to create stop payload:", err)
			return
		}
		eb, err := json.Marshal(&event.Event{
			Type:    event.StopEvent,
			Created: time.Now().UTC(),
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			fmt.Println("Unable to create stop event:", err)
			return
		}
		if stopCmdVoiceID == "" {
			fmt.Println("Stop all voices...")
		} else {
			fmt.Println("Stop voice", stopCmdVoiceID, "...")
		}
		if _, err := client.Write(eb); err != nil {
			fmt.Println("Unable to send stop event:", err)
			return
		}
		fmt.Println("Done")
	},
}

func init() {
	stopCmd.PersistentFlags().StringVarP(
		&stopCmdVoiceID,
		"voice",
		"v",
		"",
		"Voice ID to stop, blank stops every voice")
}
