package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"zamflow/internal/config"
	"zamflow/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Manage the SQL schema",
	Long: `Applies or rolls back the embedded schema migrations of the sqlite or
postgres store. Every invocation first applies pending migrations, so "up"
and "status" only differ in intent; "down" then reverts the latest one.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == "memory" {
		return fmt.Errorf("storage driver is memory; set ZAMFLOW_STORAGE_DRIVER to sqlite or postgres")
	}

	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	// Open applies pending migrations, which covers "up".
	ctx := cmd.Context()
	db, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	switch direction {
	case "up":
	case "down":
		if err := db.RollbackLast(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "rolled back latest migration")
	case "status":
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}

	applied, err := db.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	versions := make([]int, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	fmt.Fprintf(out, "applied migrations: %v\n", versions)
	return nil
}
