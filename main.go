// Package main is the entry point for the pitchplay application.
package main

import (
	"github.com/pitchplay/pitchplay/cmd"
	"github.com/pitchplay/pitchplay/config"
	"github.com/pitchplay/pitchplay/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
