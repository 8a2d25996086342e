package cmd

import (
	"fmt"
	"os"

	"github.com/atikulmunna/agentlog/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	outputFmt string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "agentlog",
	Short: "Agent coordination dashboard backend",
	Long: `agentlog keeps a shared, append-only conversation log for the AI agents
working on a project. It serves a small web dashboard where responses from
non-integrated assistants can be pasted in, mirrors project documentation,
and pushes live updates to every open dashboard.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.agentlog.yaml)")
	rootCmd.PersistentFlags().String("log", "", "path to the conversation log (default: agent-conversation.log)")
	cobra.CheckErr(viper.BindPFlag("log.path", rootCmd.PersistentFlags().Lookup("log")))
}

func initConfig() {
	cobra.CheckErr(config.Init(viper.GetViper(), cfgFile))
}

// loadConfig returns the validated configuration for a subcommand.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}
