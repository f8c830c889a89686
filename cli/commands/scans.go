package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/core"
	"github.com/robgonnella/portwatch/internal/store"
	"github.com/spf13/cobra"
)

// creates and returns the "scans" command
func scans(props *CommandProps) *cobra.Command {
	var asJSON bool

	overrides := config.Config{}

	cmd := &cobra.Command{
		Use:   "scans",
		Short: "Prints the most recently stored scan records",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(props.Env, overrides)

			if err != nil {
				return err
			}

			repo, err := core.CreateRepo(cmd.Context(), *conf)

			if err != nil {
				return err
			}

			defer repo.Close()

			views, err := store.NewService(repo).Recent(cmd.Context(), conf.QueryLimit)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"scans": views})
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "HOST\tSCAN TIME\tPROTOCOL\tPORT\tRECORDED AT")

			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", v.Host, v.ScanTime, v.Protocol, v.Port, v.RecordedAt)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as json")
	cmd.Flags().IntVarP(&overrides.QueryLimit, "limit", "n", 0, "max records to print")
	cmd.Flags().StringVar(&overrides.DBPath, "db", "", "sqlite database path")

	return cmd
}
