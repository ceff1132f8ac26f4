package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"charterdesk/internal/service"
	"charterdesk/internal/tools"
)

func newToolCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tool <name> [json-args]",
		Short: "Call one domain tool and print its JSON result",
		Long: `Calls a tool directly, e.g.

  charter tool price_estimate '{"operator_id":"op_thames","aircraft_type":"Gulfstream G550"}'

Known tools: ` + strings.Join(tools.Names(), ", "),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := service.Build(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			var raw []byte
			if len(args) == 2 {
				raw = []byte(args[1])
			}
			res, err := app.Toolbox.Invoke(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}
}
