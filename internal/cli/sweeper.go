package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/wire"
)

var sweeperCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Run the RTD&E expiry sweep on its schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := wire.Scheduler()
		// Clear anything that lapsed while the sweeper was down.
		if _, err := s.RunOnce(ctx); err != nil {
			return err
		}
		if err := s.Start(); err != nil {
			return err
		}
		fmt.Printf("Sweeper running (%s). Ctrl-C to stop.\n", wire.Config().RTDE.SweepSchedule)

		<-ctx.Done()
		s.Stop()
		return nil
	},
}

// SweeperCmd returns the sweeper command
func SweeperCmd() *cobra.Command {
	return sweeperCmd
}
