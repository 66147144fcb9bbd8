package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zamflow/internal/config"
	"zamflow/internal/doctor"
	"zamflow/internal/events"
	"zamflow/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity to the configured backends",
	Long: `Runs diagnostic checks against the hosted identity backend (toolkit
provider only), the SQL store and Redis, and reports passed/run. Exits
non-zero when a check fails.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	checks := []doctor.Check{}
	if cfg.Identity.Provider == "toolkit" {
		d := doctor.New(cfg.Identity)
		defer d.Close()
		checks = append(checks, d.Checks()...)
	} else {
		checks = append(checks, doctor.Check{Name: "Identity provider", Run: func(context.Context) doctor.Result {
			return doctor.Result{OK: true, Detail: "local provider, credentials kept in the " + cfg.Storage.Driver + " store"}
		}})
	}
	if cfg.Storage.Driver != "memory" {
		checks = append(checks, doctor.Check{Name: "Document store", Run: func(ctx context.Context) doctor.Result {
			db, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return doctor.Result{Detail: err.Error()}
			}
			_ = db.Close()
			return doctor.Result{OK: true, Detail: cfg.Storage.Driver + " store is reachable"}
		}})
	}
	if cfg.Redis.URL != "" {
		checks = append(checks, doctor.Check{Name: "Event broker", Run: func(ctx context.Context) doctor.Result {
			rc := events.RedisConfig{URL: cfg.Redis.URL, DialTimeout: cfg.Redis.DialTimeout}
			client, err := rc.New(ctx)
			if err != nil {
				return doctor.Result{Detail: err.Error()}
			}
			_ = client.Close()
			return doctor.Result{OK: true, Detail: "redis is reachable"}
		}})
	}

	rep := doctor.Run(cmd.Context(), cmd.OutOrStdout(), checks)
	if !rep.OK() {
		return fmt.Errorf("%d of %d checks failed", rep.Run-rep.Passed, rep.Run)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All checks passed!")
	return nil
}
