package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/privcheck/internal/config"
)

// cfg is resolved before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "privcheck",
	Short: "Privacy self-assessment",
	Long: `privcheck scores how well you protect your personal data.

Take the quick check or the risk audit in the terminal UI, get a ranked
plan of what to fix, and track your score over time. Answers are scored
on this device unless an assessment service is configured with
--api-url and --token (or PRIVCHECK_API_URL / PRIVCHECK_API_TOKEN).

Personalized tips need an LLM API key: ANTHROPIC_API_KEY, OPENAI_API_KEY
or GEMINI_API_KEY, or PRIVCHECK_LLM_PROVIDER with PRIVCHECK_<VENDOR>_API_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		slog.SetDefault(newLogger(c))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/privcheck/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides PRIVCHECK_DB env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().String("api-url", "", "Assessment service base URL")
	rootCmd.Flags().String("token", "", "Bearer token for the assessment service")
	rootCmd.Flags().String("user", "", "User ID sent to the assessment service")
	rootCmd.Flags().Duration("api-timeout", 0, "Timeout of a single assessment service request")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger writes text logs to stderr. The TUI owns stdout.
func newLogger(c *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel()}))
}
