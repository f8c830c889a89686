package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/core"
	"github.com/spf13/cobra"
)

// creates and returns the "receive" command
func receive(props *CommandProps) *cobra.Command {
	overrides := config.Config{}

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Runs the collector storing snapshots reported by scanners",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(props.Env, overrides)

			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector, err := core.CreateCollector(ctx, *conf)

			if err != nil {
				return err
			}

			defer collector.Close()

			return collector.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&overrides.ReceiverPort, "port", 0, "port to listen on")
	cmd.Flags().StringVar(&overrides.DBPath, "db", "", "sqlite database path")

	return cmd
}
