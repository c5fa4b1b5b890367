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

// MilkOrderAdapter translates CLI operations to MilkOrderService calls and
// renders the results.
type MilkOrderAdapter struct {
	service primary.MilkOrderService
	out     io.Writer
}

// NewMilkOrderAdapter creates a new MilkOrderAdapter with the given service.
func NewMilkOrderAdapter(service primary.MilkOrderService, out io.Writer) *MilkOrderAdapter {
	return &MilkOrderAdapter{
		service: service,
		out:     out,
	}
}

// Start creates the session for date.
func (a *MilkOrderAdapter) Start(ctx context.Context, date string) (*primary.MilkSession, error) {
	session, err := a.service.StartSession(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Started milk order %s for %s (%d items)\n", session.ID, session.SessionDate, len(session.Entries))
	fmt.Fprintf(a.out, "  Next: storeops milk front %s --count <milk-type>=<qty> ...\n", session.ID)
	return session, nil
}

// Show displays a session with its entries. When sessionID is empty the
// session for date is shown instead.
func (a *MilkOrderAdapter) Show(ctx context.Context, sessionID, date string) (*primary.MilkSession, error) {
	var session *primary.MilkSession
	var err error
	if sessionID != "" {
		session, err = a.service.GetSession(ctx, sessionID)
	} else {
		session, err = a.service.GetSessionByDate(ctx, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session == nil {
		fmt.Fprintf(a.out, "No milk order session for %s.\n", date)
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Start tonight's count:")
		fmt.Fprintln(a.out, "  storeops milk start")
		return nil, nil
	}

	fmt.Fprintf(a.out, "\nMilk order: %s\n", session.ID)
	fmt.Fprintf(a.out, "Date:    %s\n", session.SessionDate)
	fmt.Fprintf(a.out, "Status:  %s\n", statusBadge(session.Status))
	if session.NightUserID != "" {
		fmt.Fprintf(a.out, "Night:   %s\n", session.NightUserID)
	}
	if session.MorningUserID != "" {
		fmt.Fprintf(a.out, "Morning: %s\n", session.MorningUserID)
	}
	fmt.Fprintln(a.out)

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tPAR\tFRONT\tBACK\tDELIVERED\tON ORDER")
	fmt.Fprintln(w, "--\t----\t---\t-----\t----\t---------\t--------")
	for _, e := range session.Entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.MilkTypeID,
			e.Name,
			e.ParValue,
			optInt(e.FrontCount),
			optInt(e.BackCount),
			deliveredCell(e),
			optInt(e.OnOrder),
		)
	}
	w.Flush()
	return session, nil
}

// History lists past sessions, newest first.
func (a *MilkOrderAdapter) History(ctx context.Context, filters primary.MilkSessionFilters) error {
	page, err := a.service.ListSessions(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(page.Sessions) == 0 {
		fmt.Fprintln(a.out, "No milk order sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTATUS\tNIGHT\tMORNING")
	fmt.Fprintln(w, "--\t----\t------\t-----\t-------")
	for _, s := range page.Sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.SessionDate, s.Status, dash(s.NightUserID), dash(s.MorningUserID))
	}
	w.Flush()

	fmt.Fprintf(a.out, "\nShowing %d-%d of %d\n", page.Offset+1, page.Offset+len(page.Sessions), page.Total)
	return nil
}

// SaveFront records the night FOH counts.
func (a *MilkOrderAdapter) SaveFront(ctx context.Context, req primary.SaveCountsRequest) error {
	session, err := a.service.SaveFrontCount(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to save front counts: %w", err)
	}
	a.printSaved("Front counts", len(req.Counts), session)
	return nil
}

// SaveBack records the night BOH counts.
func (a *MilkOrderAdapter) SaveBack(ctx context.Context, req primary.SaveCountsRequest) error {
	session, err := a.service.SaveBackCount(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to save back counts: %w", err)
	}
	a.printSaved("Back counts", len(req.Counts), session)
	return nil
}

// SaveMorning records the morning deliveries.
func (a *MilkOrderAdapter) SaveMorning(ctx context.Context, req primary.SaveMorningRequest) error {
	session, err := a.service.SaveMorningCount(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to save morning counts: %w", err)
	}
	a.printSaved("Morning counts", len(req.Counts), session)
	return nil
}

// SaveOnOrder records quantities already on order and completes the session.
func (a *MilkOrderAdapter) SaveOnOrder(ctx context.Context, req primary.SaveCountsRequest) error {
	session, err := a.service.SaveOnOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to save on-order quantities: %w", err)
	}
	a.printSaved("On-order quantities", len(req.Counts), session)
	return nil
}

// Summary prints the order sheet for a session.
func (a *MilkOrderAdapter) Summary(ctx context.Context, sessionID string) (*primary.MilkSummary, error) {
	summary, err := a.service.GetSummary(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	fmt.Fprintf(a.out, "\nMilk order summary: %s (%s) %s\n\n", summary.SessionDate, summary.SessionID, statusBadge(summary.Status))

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ITEM\tFOH\tBOH\tDELIVERED\tON ORDER\tTOTAL\tPAR\tORDER\t")
	for _, it := range summary.Items {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t\n",
			it.Name, it.Front, it.Back, it.Delivered, it.OnOrder, it.Total, it.Par, orderCell(it.Order))
	}
	t := summary.Totals
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t%d\t%d\t\t%d\t\n", t.Front, t.Back, t.Delivered, t.OnOrder, t.Total, t.Order)
	w.Flush()
	return summary, nil
}

// Reset deletes sessions for a date, or all sessions.
func (a *MilkOrderAdapter) Reset(ctx context.Context, req primary.ResetSessionsRequest) error {
	n, err := a.service.ResetSessions(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to reset sessions: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Deleted %d milk order session(s)\n", n)
	return nil
}

func (a *MilkOrderAdapter) printSaved(what string, n int, session *primary.MilkSession) {
	fmt.Fprintf(a.out, "✓ %s saved for %s (%d items)\n", what, session.ID, n)
	fmt.Fprintf(a.out, "  Status: %s\n", statusBadge(session.Status))
	if session.CompletedAt != nil {
		fmt.Fprintf(a.out, "  Completed at %s\n", session.CompletedAt.Local().Format(time.Kitchen))
		fmt.Fprintf(a.out, "  Next: storeops milk summary %s\n", session.ID)
	}
}

func statusBadge(status string) string {
	switch status {
	case "completed":
		return color.New(color.FgGreen).Sprint(status)
	case "morning", "on_order":
		return color.New(color.FgCyan).Sprint(status)
	case "expired":
		return color.New(color.FgRed).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}

func orderCell(n int) string {
	if n > 0 {
		return color.New(color.Bold).Sprint(n)
	}
	return "0"
}

func deliveredCell(e *primary.MilkEntry) string {
	if e.MorningMethod == "current_back" && e.CurrentBackCount != nil {
		return fmt.Sprintf("%s (back %d)", optInt(e.Delivered), *e.CurrentBackCount)
	}
	return optInt(e.Delivered)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
