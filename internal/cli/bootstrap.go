// Package cli provides CLI commands for the storeops application.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/config"
	"github.com/example/storeops/internal/ctxutil"
	"github.com/example/storeops/internal/wire"
)

// globalUserFlag stores the --user value for the current CLI invocation.
// Set once at startup by Bootstrap().
var globalUserFlag string

// Bootstrap reads the persistent root flags. Should be called once at CLI
// startup in PersistentPreRun, before any wire accessor.
func Bootstrap(cmd *cobra.Command) {
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		wire.SetEnvFile(envFile)
	}
	globalUserFlag, _ = cmd.Flags().GetString("user")
}

// ResolveUser returns the acting staff id from --user or the workstation profile.
func ResolveUser() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.ResolveUser(globalUserFlag, cwd)
}

// NewContext creates a context.Background() with the acting user embedded
// when one can be resolved. CLI commands should use this instead of
// context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if user, err := ResolveUser(); err == nil {
		return ctxutil.WithActorID(ctx, user)
	}
	return ctx
}

// userContext is NewContext for commands that cannot run anonymously.
func userContext() (context.Context, string, error) {
	user, err := ResolveUser()
	if err != nil {
		return nil, "", err
	}
	return ctxutil.WithActorID(context.Background(), user), user, nil
}

// storeToday is the reference date for "tonight's" session.
func storeToday() string {
	return wire.Config().StoreToday(time.Now())
}
