package cmd

import (
	"log"

	"github.com/atikulmunna/agentlog/internal/ingest"
	"github.com/atikulmunna/agentlog/internal/logfile"
	"github.com/atikulmunna/agentlog/internal/output"
	"github.com/spf13/cobra"
)

var entriesLimit int

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Print recent log entries, newest first",
	Long: `Decode the conversation log and print the most recent entries.

Examples:
  agentlog entries
  agentlog entries --limit 5 --output json`,
	Args: cobra.NoArgs,
	RunE: runEntries,
}

func init() {
	entriesCmd.Flags().IntVarP(&entriesLimit, "limit", "n", ingest.DefaultReadLimit, "maximum number of entries")
	entriesCmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.AddCommand(entriesCmd)
}

func runEntries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.IngestOptions()
	if err != nil {
		return err
	}

	svc := ingest.New(logfile.New(cfg.Log.Path), nil, opts)
	entries, err := svc.Recent(entriesLimit)
	if err != nil {
		return err
	}

	renderer := output.New(outputFmt, cmd.OutOrStdout())
	for _, e := range entries {
		if err := renderer.Render(e); err != nil {
			log.Printf("render error: %v", err)
		}
	}
	return nil
}
