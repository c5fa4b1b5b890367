package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/storeops/internal/ports/primary"
)

// RTDEAdapter translates CLI operations to RTDEService calls.
type RTDEAdapter struct {
	service primary.RTDEService
	out     io.Writer
}

// NewRTDEAdapter creates a new RTDEAdapter with the given service.
func NewRTDEAdapter(service primary.RTDEService, out io.Writer) *RTDEAdapter {
	return &RTDEAdapter{
		service: service,
		out:     out,
	}
}

// Start starts or resumes the user's restock session.
func (a *RTDEAdapter) Start(ctx context.Context, userID, action string) (*primary.RTDEStartResult, error) {
	res, err := a.service.StartOrResume(ctx, userID, action)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	verb := "Started"
	if res.Resumed {
		verb = "Resumed"
	}
	fmt.Fprintf(a.out, "✓ %s RTD&E session %s\n", verb, res.SessionID)
	fmt.Fprintf(a.out, "  Expires at %s\n", res.ExpiresAt.Local().Format(time.Kitchen))
	return res, nil
}

// Active shows the user's live session, if any.
func (a *RTDEAdapter) Active(ctx context.Context, userID string) (*primary.RTDEActiveSession, error) {
	active, err := a.service.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	if active == nil {
		fmt.Fprintf(a.out, "No active RTD&E session for %s.\n", userID)
		fmt.Fprintln(a.out, "  storeops rtde start")
		return nil, nil
	}

	fmt.Fprintf(a.out, "Active session: %s\n", active.SessionID)
	fmt.Fprintf(a.out, "  Counted: %d/%d items\n", active.ItemsCounted, active.TotalItems)
	fmt.Fprintf(a.out, "  Expires at %s\n", active.ExpiresAt.Local().Format(time.Kitchen))
	return active, nil
}

// Show lists every active item with its count for the session.
func (a *RTDEAdapter) Show(ctx context.Context, sessionID, userID string) (*primary.RTDESessionDetail, error) {
	detail, err := a.service.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	fmt.Fprintf(a.out, "\nRTD&E session: %s (%s)\n\n", detail.SessionID, statusBadge(detail.Status))

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tBRAND\tPAR\tCOUNTED\tNEED\tPULLED")
	fmt.Fprintln(w, "--\t----\t-----\t---\t-------\t----\t------")
	for _, it := range detail.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			it.ItemID, itemLabel(it.Icon, it.Name), dash(it.Brand), it.ParLevel, it.Counted, it.Need, pulledMark(it.IsPulled))
	}
	w.Flush()
	return detail, nil
}

// Count sets the counted quantity for an item.
func (a *RTDEAdapter) Count(ctx context.Context, sessionID, userID, itemID string, quantity int) error {
	if err := a.service.UpdateCount(ctx, sessionID, userID, itemID, quantity); err != nil {
		return fmt.Errorf("failed to update count: %w", err)
	}
	fmt.Fprintf(a.out, "✓ %s counted: %d\n", itemID, quantity)
	return nil
}

// PullList prints the items below par.
func (a *RTDEAdapter) PullList(ctx context.Context, sessionID, userID string) (*primary.RTDEPullList, error) {
	pl, err := a.service.GetPullList(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull list: %w", err)
	}

	if pl.TotalItems == 0 {
		fmt.Fprintln(a.out, color.New(color.FgGreen).Sprint("✓ Everything is at par. Nothing to pull."))
		return pl, nil
	}

	fmt.Fprintf(a.out, "\nPull list (%d/%d pulled)\n\n", pl.PulledItems, pl.TotalItems)
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	for _, it := range pl.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\tpull %d\n", pulledMark(it.IsPulled), it.ItemID, itemLabel(it.Icon, it.Name), it.Need)
	}
	w.Flush()
	return pl, nil
}

// Pull sets or clears the pulled flag for an item.
func (a *RTDEAdapter) Pull(ctx context.Context, sessionID, userID, itemID string, pulled bool) error {
	if err := a.service.MarkPulled(ctx, sessionID, userID, itemID, pulled); err != nil {
		return fmt.Errorf("failed to mark pulled: %w", err)
	}
	if pulled {
		fmt.Fprintf(a.out, "✓ %s marked pulled\n", itemID)
	} else {
		fmt.Fprintf(a.out, "✓ %s marked not pulled\n", itemID)
	}
	return nil
}

// Complete finishes the session.
func (a *RTDEAdapter) Complete(ctx context.Context, sessionID, userID string) error {
	if err := a.service.Complete(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	fmt.Fprintf(a.out, "✓ RTD&E session %s completed\n", sessionID)
	return nil
}

// Sweep removes lapsed sessions once.
func (a *RTDEAdapter) Sweep(ctx context.Context) (int64, error) {
	n, err := a.service.SweepExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	if n == 0 {
		fmt.Fprintln(a.out, "No expired sessions.")
	} else {
		fmt.Fprintf(a.out, "✓ Removed %s expired session(s)\n", color.New(color.FgYellow).Sprint(n))
	}
	return n, nil
}

func pulledMark(pulled bool) string {
	if pulled {
		return color.New(color.FgGreen).Sprint("✓")
	}
	return "○"
}

func itemLabel(icon, name string) string {
	if icon == "" {
		return name
	}
	return icon + " " + name
}
