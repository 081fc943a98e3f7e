package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/privcheck/internal/content"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print a questionnaire with its option values",
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		kind, err := content.ParseKind(kindFlag)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, content.KindDisplayName(kind))
		category := ""
		for _, q := range content.Questions(kind) {
			if q.Category != category {
				category = q.Category
				fmt.Fprintf(w, "\n[%s]\n", category)
			}
			if q.Weight > 0 {
				fmt.Fprintf(w, "%s (weight %d)\n  %s\n", q.ID, q.Weight, q.Text)
			} else {
				fmt.Fprintf(w, "%s\n  %s\n", q.ID, q.Text)
			}
			for _, o := range q.Options {
				fmt.Fprintf(w, "    %-14s %2d  %s\n", o.Value, o.Score, o.Label)
			}
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().StringP("kind", "k", string(content.KindQuick), "Assessment kind: quick or audit")
}
