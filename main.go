package main

import (
	"fmt"

	"fmsynth/cli"
)

// Application Entry Point
func main() {
	if err := cli.Run(); err != nil {
		fmt.Println(err)
	}
}
