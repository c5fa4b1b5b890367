package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/wire"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent activity across tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := wire.ActivityService().RecentActivity(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to read activity: %w", err)
		}

		last, err := wire.ActivityService().LastCompletedRTDE(ctx)
		if err != nil {
			return fmt.Errorf("failed to read activity: %w", err)
		}
		if last != nil {
			fmt.Printf("Last RTD&E restock: %s by %s\n\n", last.CreatedAt.Local().Format("Mon Jan 2 3:04 PM"), last.ActorID)
		}

		if len(entries) == 0 {
			fmt.Println("No activity yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tTOOL\tACTION\tBY\tDETAIL")
		fmt.Fprintln(w, "----\t----\t------\t--\t------")
		for _, e := range entries {
			by := e.ActorID
			if by == "" {
				by = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Tool, e.Action, by, e.Detail)
		}
		return w.Flush()
	},
}

// ActivityCmd returns the activity command
func ActivityCmd() *cobra.Command {
	activityCmd.Flags().IntP("limit", "n", 0, "Number of events (default 8, max 20)")
	return activityCmd
}
