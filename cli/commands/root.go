package commands

import (
	"os"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CommandProps injected props that can be made available to all commands
type CommandProps struct {
	Env     *viper.Viper
	logFile *os.File
}

// Root builds and returns our root command
func Root(props *CommandProps) *cobra.Command {
	var verbose bool
	var silent bool

	cmd := &cobra.Command{
		Use:           "portwatch",
		Short:         "Scan local ports and collect the results",
		SilenceUsage:  true,
		SilenceErrors: true,
		// This runs before all commands and all sub-commands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// set logging verbosity for all loggers
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if silent {
				zerolog.SetGlobalLevel(zerolog.Disabled)
			}

			logFile := props.Env.GetString(config.KeyLogFile)

			if logFile == "" || props.logFile != nil {
				return nil
			}

			file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)

			if err != nil {
				return err
			}

			props.logFile = file

			logger.GlobalSetLogFile(file)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if props.logFile == nil {
				return nil
			}

			logger.GlobalSetOutput(os.Stderr)

			err := props.logFile.Close()
			props.logFile = nil

			return err
		},
	}

	// Persistent flags available to all commands
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	cmd.PersistentFlags().BoolVar(&silent, "silent", false, "disables all logging")

	cmd.AddCommand(scan(props))
	cmd.AddCommand(receive(props))
	cmd.AddCommand(scans(props))
	cmd.AddCommand(clean(props))
	cmd.AddCommand(info(props))
	cmd.AddCommand(version())

	return cmd
}
