package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/db"
	"github.com/example/storeops/internal/wire"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database := wire.DB()
		if err := db.RunMigrations(database); err != nil {
			return err
		}
		v, err := db.CurrentVersion(database)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Schema at version %d (%s)\n", v, wire.Config().DBPath)
		return nil
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default milk and RTD&E catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.SeedFixtures(wire.DB()); err != nil {
			return err
		}
		fmt.Println("✓ Catalog seeded (existing rows left untouched)")
		fmt.Println("  storeops catalog milk list")
		return nil
	},
}

// DBCmd returns the db command
func DBCmd() *cobra.Command {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbSeedCmd)
	return dbCmd
}
