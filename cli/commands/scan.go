package commands

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/core"
	"github.com/spf13/cobra"
)

// creates and returns the "scan" command
func scan(props *CommandProps) *cobra.Command {
	var once bool

	overrides := config.Config{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Periodically scans local ports and reports open ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(props.Env, overrides)

			if err != nil {
				return err
			}

			agent, err := core.CreateAgent(cmd.Context(), *conf)

			if err != nil {
				return err
			}

			defer agent.Close()

			if once {
				if !agent.RunOnce() {
					return errors.New("scan results were not reported")
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return agent.Monitor(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single scan cycle and exit")
	cmd.Flags().StringVar(&overrides.HostIdentifier, "host", "", "host identifier reported with each snapshot")
	cmd.Flags().StringVar(&overrides.TCPPortSpec, "tcp", "", "tcp ports to scan, e.g. \"22,80,8000-8100\"")
	cmd.Flags().StringVar(&overrides.UDPPortSpec, "udp", "", "udp ports to scan")
	cmd.Flags().DurationVar(&overrides.ScanInterval, "interval", 0, "time to wait between scans")
	cmd.Flags().DurationVar(&overrides.ScanTimeout, "timeout", 0, "per port probe timeout")
	cmd.Flags().IntVar(&overrides.Workers, "workers", 0, "max concurrent probes")
	cmd.Flags().Float64Var(&overrides.RateLimit, "rate", 0, "max probes per second, 0 for unlimited")
	cmd.Flags().StringVar(&overrides.ReportSink, "sink", "", "report sink: http or pubsub")
	cmd.Flags().StringVar(&overrides.ReceiverURL, "receiver-url", "", "url snapshots are posted to")

	return cmd
}
