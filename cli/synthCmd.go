package cli

import (
	"fmsynth/config"
	"fmsynth/event"
	"fmsynth/logger"
	"fmsynth/run"
	"fmsynth/sockets/unix"
	"fmsynth/sockets/web"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var synthCmd = &cobra.Command{
	Use:   "fmsynth",
	Short: "FM Synthesis Daemon",
	Long:  "Runs the synthesizer engine, controlled over a unix socket by the play and stop commands",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Read(configPath); err != nil {
			logger.WithError(err).Warn("unable to read config file")
		}
		logger.Setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer run.Recover()
		// Event processing
		go event.ProcessEvents()
		defer event.Close()
		// Local control socket
		server := unix.NewServer(unix.NewConfig())
		go func() {
			if err := server.Listen(); err != nil {
				logger.WithError(err).Fatal("unable to listen on unix socket")
			}
		}()
		defer server.Close()
		// Optional remote control bridge
		if wc := web.NewConfig(); wc.Enabled() {
			ws := web.New(wc)
			go ws.Connect()
			defer ws.Close()
		}
		logger.Info("fmsynth daemon running")
		sig := run.UntilQuit()
		logger.WithField("signal", sig).Info("shutting down")
	},
}

func init() {
	synthCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Optional absolute path to toml config file")
	synthCmd.PersistentFlags().StringVarP(
		&logLevel,
		"level",
		"l",
		"info",
		"Log level (debug, info, warn, error)")
	logger.BindLogLevelFlag(synthCmd.PersistentFlags().Lookup("level"))
	synthCmd.AddCommand(playCmd)
	synthCmd.AddCommand(stopCmd)
	synthCmd.AddCommand(demoCmd)
	synthCmd.AddCommand(buildCmd)
}

func Run() error {
	return synthCmd.Execute()
}
