package cli

import (
	"fmt"
	"time"

	"fmsynth/audio"
	"fmsynth/fm"
	"fmsynth/run"
	"fmsynth/voice"

	"github.com/spf13/cobra"
)

var (
	demoCmdVoices   int
	demoCmdStagger  time.Duration
	demoCmdDuration time.Duration
	demoCmdSeed     int64
)

// Carrier/modulator pairs cycled over as demo voices spawn
var demoNotes = []struct {
	carrier   float64
	modulator float64
}{
	{220, 340},
	{440, 679},
	{330, 510},
	{550, 850},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Play several staggered voices in process for a fixed time",
	Run: func(cmd *cobra.Command, args []string) {
		defer run.Recover()
		voices := voice.NewVoices(demoCmdSeed)
		defer voices.StopAll()
		sampleRate := audio.NewConfig().SampleRate()
		for i := 0; i < demoCmdVoices; i++ {
			note := demoNotes[i%len(demoNotes)]
			v, err := voices.Play(fm.Params{
				CarrierHz:          note.carrier,
				ModulatorHz:        note.modulator,
				ModulatorAmplitude: 0.8,
				SampleRate:         sampleRate,
			})
			if err != nil {
				fmt.Println("Unable to play voice:", err)
				return
			}
			fmt.Println("Playing voice", v.ID(), "at", note.carrier, "Hz")
			time.Sleep(demoCmdStagger)
		}
		select {
		case <-time.After(demoCmdDuration):
		case <-run.QuitC():
		}
		fmt.Println("Stopping all voices")
	},
}

func init() {
	demoCmd.PersistentFlags().IntVarP(
		&demoCmdVoices,
		"voices",
		"n",
		3,
		"Number of voices to spawn")
	demoCmd.PersistentFlags().DurationVarP(
		&demoCmdStagger,
		"stagger",
		"g",
		250*time.Millisecond,
		"Delay between voice starts")
	demoCmd.PersistentFlags().DurationVarP(
		&demoCmdDuration,
		"duration",
		"d",
		5*time.Second,
		"How long the voices play before stopping")
	demoCmd.PersistentFlags().Int64Var(
		&demoCmdSeed,
		"seed",
		0,
		"Pan randomness seed, 0 seeds from the clock")
}
