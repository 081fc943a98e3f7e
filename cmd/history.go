package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kindFlag, _ := cmd.Flags().GetString("kind")

		opts := store.QueryOpts{Limit: limit}
		if kindFlag != "" {
			kind, err := content.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			opts.Kind = kind
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.History(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "No assessments yet.")
			return nil
		}

		fmt.Fprintf(w, "%-19s  %-20s  %5s  %-12s  %-6s  %s\n",
			"Completed", "Assessment", "Score", "Rating", "Mode", "ID")
		fmt.Fprintln(w, strings.Repeat("─", 100))
		for _, e := range entries {
			fmt.Fprintf(w, "%-19s  %-20s  %4d%%  %-12s  %-6s  %s\n",
				e.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				content.KindDisplayName(e.Kind),
				e.Percentage,
				e.Rating,
				e.Mode,
				e.AssessmentID,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	historyCmd.Flags().StringP("kind", "k", "", "Only show quick or audit")
}
