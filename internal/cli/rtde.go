package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/wire"
)

var rtdeCmd = &cobra.Command{
	Use:   "rtde",
	Short: "Ready-to-drink/eat restock count",
	Long: `Count the RTD&E cooler, get the list of items to pull from the back, mark
them pulled, then complete. Sessions belong to one user and lapse after the
configured window.`,
}

var rtdeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new session, or resume your current one with --resume",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		action := "new"
		if resume, _ := cmd.Flags().GetBool("resume"); resume {
			action = "resume"
		}

		_, err = wire.RTDEAdapter().Start(ctx, user, action)
		return err
	},
}

var rtdeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		_, err = wire.RTDEAdapter().Active(ctx, user)
		return err
	},
}

var rtdeShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show every item with its count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		_, err = wire.RTDEAdapter().Show(ctx, args[0], user)
		return err
	},
}

var rtdeCountCmd = &cobra.Command{
	Use:   "count [session-id] [item-id] [quantity]",
	Short: "Set the counted quantity for an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", args[2], err)
		}
		return wire.RTDEAdapter().Count(ctx, args[0], user, args[1], qty)
	},
}

var rtdePullListCmd = &cobra.Command{
	Use:   "pull-list [session-id]",
	Short: "List items below par and how many to pull",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		_, err = wire.RTDEAdapter().PullList(ctx, args[0], user)
		return err
	},
}

var rtdePullCmd = &cobra.Command{
	Use:   "pull [session-id] [item-id]",
	Short: "Mark an item as pulled (--undo to clear)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		undo, _ := cmd.Flags().GetBool("undo")
		return wire.RTDEAdapter().Pull(ctx, args[0], user, args[1], !undo)
	},
}

var rtdeCompleteCmd = &cobra.Command{
	Use:   "complete [session-id]",
	Short: "Complete the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, user, err := userContext()
		if err != nil {
			return err
		}
		return wire.RTDEAdapter().Complete(ctx, args[0], user)
	},
}

var rtdeSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete lapsed sessions once",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.RTDEAdapter().Sweep(NewContext())
		return err
	},
}

// RTDECmd returns the rtde command
func RTDECmd() *cobra.Command {
	// Add flags
	rtdeStartCmd.Flags().Bool("resume", false, "Resume your in-progress session instead of starting fresh")
	rtdePullCmd.Flags().Bool("undo", false, "Clear the pulled flag")

	// Add subcommands
	rtdeCmd.AddCommand(rtdeStartCmd)
	rtdeCmd.AddCommand(rtdeStatusCmd)
	rtdeCmd.AddCommand(rtdeShowCmd)
	rtdeCmd.AddCommand(rtdeCountCmd)
	rtdeCmd.AddCommand(rtdePullListCmd)
	rtdeCmd.AddCommand(rtdePullCmd)
	rtdeCmd.AddCommand(rtdeCompleteCmd)
	rtdeCmd.AddCommand(rtdeSweepCmd)

	return rtdeCmd
}
