package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/wire"
)

var milkCmd = &cobra.Command{
	Use:   "milk",
	Short: "Nightly and morning milk order count",
	Long: `Run the milk order workflow: night front-of-house count, night back-of-house
count, morning delivery count, then quantities already on order. Each phase
must be saved in order; the summary shows what to order.`,
}

var milkStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start tonight's milk order session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = storeToday()
		}

		_, err := wire.MilkOrderAdapter().Start(ctx, date)
		return err
	},
}

var milkShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's counts (default: today's)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = storeToday()
		}
		sessionID := ""
		if len(args) == 1 {
			sessionID = args[0]
		}

		_, err := wire.MilkOrderAdapter().Show(ctx, sessionID, date)
		return err
	},
}

var milkHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		return wire.MilkOrderAdapter().History(ctx, primary.MilkSessionFilters{
			Status: status,
			Limit:  limit,
			Offset: offset,
		})
	},
}

var milkFrontCmd = &cobra.Command{
	Use:     "front [session-id]",
	Short:   "Save the night front-of-house counts",
	Example: `  storeops milk front --count mt-001-whole=10 --count mt-006-oat=8`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		req, err := countsRequest(ctx, cmd, args)
		if err != nil {
			return err
		}
		return wire.MilkOrderAdapter().SaveFront(ctx, req)
	},
}

var milkBackCmd = &cobra.Command{
	Use:   "back [session-id]",
	Short: "Save the night back-of-house counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		req, err := countsRequest(ctx, cmd, args)
		if err != nil {
			return err
		}
		return wire.MilkOrderAdapter().SaveBack(ctx, req)
	},
}

var milkMorningCmd = &cobra.Command{
	Use:   "morning [session-id]",
	Short: "Save the morning delivery count",
	Long: `Save the morning delivery count. For each item either give the current
back-of-house count (delivered = current - last night's back count) or the
delivered quantity directly.`,
	Example: `  storeops milk morning --current-back mt-001-whole=30 --delivered mt-006-oat=5`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		sessionID, err := resolveMilkSessionID(ctx, cmd, args)
		if err != nil {
			return err
		}
		currentBack, _ := cmd.Flags().GetStringArray("current-back")
		delivered, _ := cmd.Flags().GetStringArray("delivered")
		counts, err := parseMorningCounts(currentBack, delivered)
		if err != nil {
			return err
		}

		return wire.MilkOrderAdapter().SaveMorning(ctx, primary.SaveMorningRequest{
			SessionID: sessionID,
			Counts:    counts,
		})
	},
}

var milkOnOrderCmd = &cobra.Command{
	Use:   "on-order [session-id]",
	Short: "Save quantities already on order and complete the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		req, err := countsRequest(ctx, cmd, args)
		if err != nil {
			return err
		}
		return wire.MilkOrderAdapter().SaveOnOrder(ctx, req)
	},
}

var milkSummaryCmd = &cobra.Command{
	Use:   "summary [session-id]",
	Short: "Show the order sheet for a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		sessionID, err := resolveMilkSessionID(ctx, cmd, args)
		if err != nil {
			return err
		}
		_, err = wire.MilkOrderAdapter().Summary(ctx, sessionID)
		return err
	},
}

var milkResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete sessions (development only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wire.Config().IsDevelopment() {
			return fmt.Errorf("reset is only available when STOREOPS_ENV=development")
		}
		ctx := NewContext()
		all, _ := cmd.Flags().GetBool("all")
		today, _ := cmd.Flags().GetBool("today")
		date, _ := cmd.Flags().GetString("date")
		if today {
			date = storeToday()
		}
		if !all && date == "" {
			return fmt.Errorf("specify --today, --date or --all")
		}

		return wire.MilkOrderAdapter().Reset(ctx, primary.ResetSessionsRequest{Date: date, All: all})
	},
}

// resolveMilkSessionID returns the explicit session id, or today's session
// (or the --date session) when none is given.
func resolveMilkSessionID(ctx context.Context, cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = storeToday()
	}
	session, err := wire.MilkOrderService().GetSessionByDate(ctx, date)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("no milk order session for %s\nHint: storeops milk start", date)
	}
	return session.ID, nil
}

func countsRequest(ctx context.Context, cmd *cobra.Command, args []string) (primary.SaveCountsRequest, error) {
	sessionID, err := resolveMilkSessionID(ctx, cmd, args)
	if err != nil {
		return primary.SaveCountsRequest{}, err
	}
	raw, _ := cmd.Flags().GetStringArray("count")
	counts, err := parseCounts(raw)
	if err != nil {
		return primary.SaveCountsRequest{}, err
	}
	return primary.SaveCountsRequest{SessionID: sessionID, Counts: counts}, nil
}

// MilkCmd returns the milk command
func MilkCmd() *cobra.Command {
	// Add flags
	milkStartCmd.Flags().String("date", "", "Session date YYYY-MM-DD (default: today in the store timezone)")
	milkShowCmd.Flags().String("date", "", "Show the session for this date")
	milkHistoryCmd.Flags().StringP("status", "s", "", "Filter by status (night_foh, night_boh, morning, on_order, completed)")
	milkHistoryCmd.Flags().IntP("limit", "n", 0, "Page size (default 30, max 100)")
	milkHistoryCmd.Flags().Int("offset", 0, "Rows to skip")
	for _, c := range []*cobra.Command{milkFrontCmd, milkBackCmd, milkOnOrderCmd} {
		c.Flags().StringArrayP("count", "c", nil, "Item count as <milk-type-id>=<qty> (repeatable)")
		c.Flags().String("date", "", "Use the session for this date instead of today's")
	}
	milkMorningCmd.Flags().StringArray("current-back", nil, "Current back count as <milk-type-id>=<qty> (repeatable)")
	milkMorningCmd.Flags().StringArray("delivered", nil, "Delivered quantity as <milk-type-id>=<qty> (repeatable)")
	milkMorningCmd.Flags().String("date", "", "Use the session for this date instead of today's")
	milkSummaryCmd.Flags().String("date", "", "Use the session for this date instead of today's")
	milkResetCmd.Flags().Bool("today", false, "Delete today's session")
	milkResetCmd.Flags().String("date", "", "Delete the session for this date")
	milkResetCmd.Flags().Bool("all", false, "Delete every session")

	// Add subcommands
	milkCmd.AddCommand(milkStartCmd)
	milkCmd.AddCommand(milkShowCmd)
	milkCmd.AddCommand(milkHistoryCmd)
	milkCmd.AddCommand(milkFrontCmd)
	milkCmd.AddCommand(milkBackCmd)
	milkCmd.AddCommand(milkMorningCmd)
	milkCmd.AddCommand(milkOnOrderCmd)
	milkCmd.AddCommand(milkSummaryCmd)
	milkCmd.AddCommand(milkResetCmd)

	return milkCmd
}
