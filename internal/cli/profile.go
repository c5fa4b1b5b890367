package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage this workstation's acting user",
	Long: `The profile in .storeops/profile.json names the staff member who runs
commands from this directory. --user overrides it for a single command.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		p, err := config.LoadProfile(cwd)
		if err != nil {
			fmt.Println("No profile set")
			fmt.Println("  storeops profile set --user <id>")
			return nil
		}
		fmt.Printf("User: %s\n", p.UserID)
		if p.Role != "" {
			fmt.Printf("Role: %s\n", p.Role)
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the acting user for this workstation",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		if err := config.SaveProfile(cwd, &config.Profile{UserID: user, Role: role}); err != nil {
			return err
		}
		fmt.Printf("✓ Profile set: %s\n", user)
		return nil
	},
}

// ProfileCmd returns the profile command
func ProfileCmd() *cobra.Command {
	// --user is a persistent root flag; profile set reads it directly.
	profileSetCmd.Flags().String("role", "", "Optional role label (night, morning)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	return profileCmd
}
