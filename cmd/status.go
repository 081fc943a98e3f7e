package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/privcheck/internal/api"
	"github.com/abhisek/privcheck/internal/content"
)

var statusCmd = &cobra.Command{
	Use:   "status <assessment-id>",
	Short: "Show the progress of an assessment on the assessment service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.API.URL == "" {
			return fmt.Errorf("no assessment service configured (set --api-url or PRIVCHECK_API_URL)")
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		st, err := client.GetStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get status: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Assessment:  %s\n", st.AssessmentID)
		fmt.Fprintf(w, "Kind:        %s\n", content.KindDisplayName(st.Kind))
		fmt.Fprintf(w, "Status:      %s\n", st.Status)
		fmt.Fprintf(w, "Answered:    %d / %d\n", st.Answered, st.Total)
		fmt.Fprintf(w, "Started:     %s\n", st.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if st.Status == api.StatusCompleted && st.CompletedAt != nil {
			fmt.Fprintf(w, "Completed:   %s\n", st.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().String("api-url", "", "Assessment service base URL")
	statusCmd.Flags().String("token", "", "Bearer token for the assessment service")
	statusCmd.Flags().String("user", "", "User ID sent to the assessment service")
}
