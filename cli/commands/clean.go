package commands

import (
	"errors"
	"os"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/spf13/cobra"
)

// creates and returns the "clean" command
func clean(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Removes the sqlite database and log files",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()

			dbFile := props.Env.GetString(config.KeyDBPath)

			if dbFile != "" {
				if err := os.Remove(dbFile); err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				log.Info().Str("path", dbFile).Msg("removed database file")
			}

			logFile := props.Env.GetString(config.KeyLogFile)

			if logFile != "" {
				if err := os.RemoveAll(logFile); err != nil {
					return err
				}
				log.Info().Str("path", logFile).Msg("removed log file")
			}

			return nil
		},
	}

	return cmd
}
