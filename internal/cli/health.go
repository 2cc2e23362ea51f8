package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
)

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show API health and registry source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			health, err := a.client.Health(ctx)
			if err != nil {
				return infraerrors.Wrapf(err, "health check")
			}

			t := newTable(cmd.OutOrStdout(), table.Row{"Key", "Value"})
			for _, k := range slices.Sorted(maps.Keys(health)) {
				t.AppendRow(table.Row{k, fmt.Sprint(health[k])})
			}

			info, err := a.client.ConfigInfo(ctx)
			if err != nil {
				a.logger.Warn("config info unavailable", infralogger.Error(err))
			} else {
				t.AppendSeparator()
				t.AppendRow(table.Row{"config_source", info.ConfigSource})
				t.AppendRow(table.Row{"total_websites", info.TotalWebsites})
				t.AppendRow(table.Row{"loaded_at", info.LoadedAt.Format("2006-01-02 15:04:05")})
			}
			t.Render()
			return nil
		},
	}
}
