package main

import (
	"context"

	"github.com/robgonnella/portwatch/cli/commands"
	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/logger"
)

/**
 * Main entry point for all commands
 * Runtime configuration comes from the environment via viper
 */

// Entry point for the cli
func main() {
	log := logger.New()

	// Get the "root" cobra cli command
	cmd := commands.Root(&commands.CommandProps{
		Env: config.NewEnv(),
	})

	// execute the cobra command and exit with error code if necessary
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
