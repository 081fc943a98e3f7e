package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a file of answers without the TUI",
	Long: `Score answers read from a YAML file that maps question IDs to option
values, for example:

  password-reuse: rarely
  two-factor: sms

Use "-" to read from stdin. Unknown question IDs are ignored; invalid
option values are an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		path, _ := cmd.Flags().GetString("answers")
		asJSON, _ := cmd.Flags().GetBool("json")

		kind, err := content.ParseKind(kindFlag)
		if err != nil {
			return err
		}

		var r io.Reader
		if path == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open answers: %w", err)
			}
			defer f.Close()
			r = f
		}

		answers, skipped, err := readAnswers(kind, r)
		if err != nil {
			return err
		}
		for _, id := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "ignoring unknown question %q\n", id)
		}

		out := scoring.Evaluate(kind, answers)
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		printOutcome(cmd.OutOrStdout(), out)
		return nil
	},
}

// readAnswers decodes a question ID to option value map. IDs are checked
// in sorted order, so the first invalid value reported is stable. It also
// returns the IDs that are not part of the questionnaire.
func readAnswers(kind content.Kind, r io.Reader) (scoring.Answers, []string, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("decode answers: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	answers := make(scoring.Answers, len(raw))
	var skipped []string
	for _, id := range ids {
		q, err := content.GetQuestion(kind, id)
		if err != nil {
			skipped = append(skipped, id)
			continue
		}
		a, err := scoring.NewAnswer(q, raw[id])
		if err != nil {
			return nil, nil, err
		}
		answers[id] = a
	}
	return answers, skipped, nil
}

func printOutcome(w io.Writer, out scoring.Outcome) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "%s: %d%% (%s)\n", content.KindDisplayName(out.Kind), out.Percentage(), out.Rating())
	fmt.Fprintln(w, sep)

	switch {
	case out.Result != nil:
		r := out.Result
		fmt.Fprintf(w, "Score: %d / %d\n\n", r.Score, r.MaxScore)
		for _, c := range r.Categories {
			fmt.Fprintf(w, "  %-28s  %3d / %-3d\n", c.Category, c.Score, c.MaxScore)
		}
		if len(r.ActionPlan) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Action plan")
			for _, item := range r.ActionPlan {
				fmt.Fprintf(w, "  %d. %s\n", item.Priority, item.Title)
				for _, s := range item.Steps {
					fmt.Fprintf(w, "     - %s\n", s)
				}
				if item.Resource != "" {
					fmt.Fprintf(w, "     see %s\n", item.Resource)
				}
			}
		}

	case out.Audit != nil:
		a := out.Audit
		fmt.Fprintf(w, "Weighted score: %d / %d\n\n", a.Score, a.MaxScore)
		for _, c := range a.Categories {
			fmt.Fprintf(w, "  %-28s  %3d%%  %-8s  weight %d\n", c.Category, c.Percentage, c.Risk, c.Weight)
		}
		if len(a.Recommendations) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Recommendations")
			for _, rec := range a.Recommendations {
				fmt.Fprintf(w, "  %d. %s (%s risk, %d%%)\n", rec.Priority, rec.Category, rec.Risk, rec.Percentage)
				for _, s := range rec.Actions {
					fmt.Fprintf(w, "     - %s\n", s)
				}
			}
		}
	}
}

func init() {
	scoreCmd.Flags().StringP("kind", "k", string(content.KindQuick), "Assessment kind: quick or audit")
	scoreCmd.Flags().StringP("answers", "a", "-", "YAML answers file, or - for stdin")
	scoreCmd.Flags().Bool("json", false, "Print the outcome as JSON")
}
