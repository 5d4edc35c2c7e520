package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		if !commands.Reported(err) {
			log.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}
