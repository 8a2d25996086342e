package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atikulmunna/agentlog/internal/advisor"
	"github.com/spf13/cobra"
)

var routeJSON bool

var routeCmd = &cobra.Command{
	Use:   "route <task description>",
	Short: "Recommend which assistant to use for a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := advisor.Recommend(strings.Join(args, " "))
		out := cmd.OutOrStdout()
		if routeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		fmt.Fprintf(out, "Complexity: %s\n", rec.Complexity)
		fmt.Fprintf(out, "  primary:   %s (%s)\n", rec.Primary.Name, rec.Primary.Reason)
		fmt.Fprintf(out, "  secondary: %s (%s)\n", rec.Secondary.Name, rec.Secondary.Reason)
		if rec.Backup != nil {
			fmt.Fprintf(out, "  backup:    %s (%s)\n", rec.Backup.Name, rec.Backup.Reason)
		}
		fmt.Fprintf(out, "  avoid:     %s\n", strings.Join(rec.DontUse, ", "))
		return nil
	},
}

func init() {
	routeCmd.Flags().BoolVar(&routeJSON, "json", false, "print JSON")
	rootCmd.AddCommand(routeCmd)
}
