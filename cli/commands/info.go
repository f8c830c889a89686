package commands

import (
	"fmt"

	app_info "github.com/robgonnella/portwatch/internal/app-info"
	"github.com/robgonnella/portwatch/internal/config"
	"github.com/spf13/cobra"
)

func info(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print app info and the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(props.Env, config.Config{})

			if err != nil {
				return err
			}

			store := "sqlite " + conf.DBPath

			if conf.UsePostgres() {
				store = "postgres"
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s: %s\n\nhost: %s\ntcp ports: %d\nudp ports: %d\ninterval: %s\ntimeout: %s\nworkers: %d\nsink: %s\nstore: %s\n",
				app_info.NAME,
				app_info.VERSION,
				conf.HostIdentifier,
				len(conf.TCPPorts),
				len(conf.UDPPorts),
				conf.ScanInterval,
				conf.ScanTimeout,
				conf.Workers,
				conf.ReportSink,
				store,
			)

			return nil
		},
	}

	return cmd
}
