// Package main is the entry point for the cadence player.
package main

import (
	"github.com/samber/lo"

	"github.com/cadence-player/cadence/cmd"
	"github.com/cadence-player/cadence/config"
	"github.com/cadence-player/cadence/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
