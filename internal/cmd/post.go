package cmd

import (
	"fmt"

	"github.com/atikulmunna/agentlog/internal/ingest"
	"github.com/atikulmunna/agentlog/internal/logfile"
	"github.com/spf13/cobra"
)

var postReq ingest.Request

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Append one entry to the conversation log",
	Long: `Validate, sanitize and append a single entry without a running server.
Connected dashboards pick the change up through the file relay.

Examples:
  agentlog post --agent GEMINI --content "feat: estimate form done"
  agentlog post --agent CLAUDE --task Login --type docs --content "..." --force`,
	Args: cobra.NoArgs,
	RunE: runPost,
}

func init() {
	f := postCmd.Flags()
	f.StringVarP(&postReq.Agent, "agent", "a", "", "author of the entry (required)")
	f.StringVar(&postReq.Content, "content", "", "entry text (required)")
	f.StringVarP(&postReq.Type, "type", "t", "", "category tag (default: inferred, else general)")
	f.StringVar(&postReq.Task, "task", "", "task context label")
	f.StringVar(&postReq.Timestamp, "timestamp", "", "entry time (default: now)")
	f.BoolVarP(&postReq.Force, "force", "f", false, "log even if it looks like a duplicate")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.IngestOptions()
	if err != nil {
		return err
	}

	svc := ingest.New(logfile.New(cfg.Log.Path), nil, opts)
	res, err := svc.Submit(cmd.Context(), postReq)
	if err != nil {
		return err
	}
	if res.Duplicate {
		return fmt.Errorf("%s", res.Message)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "logged %s at %s\n", res.Hash, res.Entry.Timestamp)
	return nil
}
