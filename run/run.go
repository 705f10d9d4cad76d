package run

import (
	"os"
	"os/signal"
	"syscall"

	"fmsynth/logger"
)

// os.Signal channel function
var SigChanFunc = defaultSigChanFunc

// Default os.Signal channel function
func defaultSigChanFunc() chan os.Signal {
	return make(chan os.Signal, 1)
}

// Run this method until the passed in os.Signals are triggered
// Returns the recieved signal
func UntilSignal(signals ...os.Signal) os.Signal {
	ch := SigChanFunc()
	signal.Notify(ch, signals...)
	sig := <-ch // Blocking
	return sig
}

// Quit signals
var quitSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// Returns a channel receiving quit signals, for use in selects
func QuitC() <-chan os.Signal {
	ch := SigChanFunc()
	signal.Notify(ch, quitSignals...)
	return (<-chan os.Signal)(ch)
}

// Run until a quit signal is recieved
func UntilQuit() os.Signal {
	return UntilSignal(quitSignals...)
}

// Panic Recover
func Recover() {
	if r := recover(); r != nil {
		logger.Error("panic recovery: %v", r)
	}
}
