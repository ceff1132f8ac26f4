package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"charterdesk/internal/fixtures"
	"charterdesk/internal/infra"
	"charterdesk/internal/modules/availability"
	"charterdesk/internal/modules/operator"
	"charterdesk/internal/modules/pricing"
)

func newSeedCmd(c *cli) *cobra.Command {
	var migration string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference operators, rates and listings into Postgres and Redis",
		Long: `Writes the built-in reference data to whichever stores are configured
(db.dsn and redis.addr). With --migration the schema file is applied first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.cfg.DB.DSN == "" && c.cfg.Redis.Addr == "" {
				return errors.New("nothing to seed: set db.dsn and/or redis.addr")
			}

			if c.cfg.DB.DSN != "" {
				db, err := infra.NewDB(ctx, c.cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer db.Close()

				if migration != "" {
					sql, err := os.ReadFile(migration)
					if err != nil {
						return fmt.Errorf("read migration: %w", err)
					}
					if _, err := db.Exec(ctx, string(sql)); err != nil {
						return fmt.Errorf("apply migration: %w", err)
					}
					c.logger.Info("migration applied", zap.String("path", migration))
				}

				ops := operator.NewPostgresStore(db)
				for _, p := range fixtures.Operators() {
					if err := ops.Upsert(ctx, p); err != nil {
						return fmt.Errorf("seed operator %s: %w", p.ID, err)
					}
				}
				rates := pricing.NewPostgresRates(db)
				for t, r := range fixtures.Rates() {
					if err := rates.UpsertRate(ctx, t, r); err != nil {
						return fmt.Errorf("seed rate %s: %w", t, err)
					}
				}
				for id, fee := range fixtures.RepositionFees() {
					if err := rates.UpsertFee(ctx, id, fee); err != nil {
						return fmt.Errorf("seed fee %s: %w", id, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "postgres: %d operators, %d rates\n",
					len(fixtures.Operators()), len(fixtures.Rates()))
			}

			if c.cfg.Redis.Addr != "" {
				rdb, err := infra.NewRedis(ctx, c.cfg.Redis.Addr)
				if err != nil {
					return err
				}
				defer rdb.Close()

				src := availability.NewRedisSource(rdb)
				listings := fixtures.Listings()
				for _, l := range listings {
					if err := src.Add(ctx, l); err != nil {
						return fmt.Errorf("seed listing %s: %w", l.ID, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "redis: %d listings\n", len(listings))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&migration, "migration", "", "Schema SQL to apply before seeding (e.g. migrations/0001_init.sql)")
	return cmd
}
