package main

import (
	"fmt"
	"time"

	"gamezone-booking/cmd/bootstrap/components"
	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/infra/db"
	"gamezone-booking/internal/infra/lock"
	"gamezone-booking/internal/infra/notifier"
	"gamezone-booking/internal/infra/uow"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/pkg/jwt"
	"gamezone-booking/internal/pkg/signature"
	"gamezone-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

// loadSections reads only the config sections a subcommand needs, so the
// server's required settings (port, secrets) are not demanded here.
func loadSections(sections ...any) error {
	for _, s := range sections {
		if err := envconfig.Process("", s); err != nil {
			return fmt.Errorf("failed to process env config: %w", err)
		}
	}
	return nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config.DBConfig
			if err := loadSections(&cfg); err != nil {
				return err
			}
			logger := newLogger()

			pool, cleanup, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			applied, err := db.Migrate(cmd.Context(), pool, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+name)
			}
			return nil
		},
	}
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire lapsed holds and overdue queue entries once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config.Config
			if err := loadSections(&cfg.DB, &cfg.Booking, &cfg.Pricing, &cfg.Queue); err != nil {
				return err
			}
			logger := newLogger()

			pool, cleanup, err := db.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer cleanup()

			peak, err := components.NewPeakPolicy(cfg)
			if err != nil {
				return err
			}
			clk := clock.NewRealClock()
			deps := commands.NewDependencies(
				uow.NewPostgresUoW(pool, logger),
				lock.NewPostgresLocker(pool, logger),
				notifier.NewLogSink(logger),
				clk,
				pricing.NewDefaultCalculator(),
				peak,
				cfg,
				logger,
			)

			n, err := commands.NewReservationCommands(deps, commands.NewWaitlistCommands(deps)).ExpireStale(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d stale hold(s) and queue entries\n", n)
			return nil
		},
	}
}

func newTokenCommand() *cobra.Command {
	var (
		userID string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config.JWTConfig
			if err := loadSections(&cfg); err != nil {
				return err
			}
			duration, err := time.ParseDuration(cfg.Duration)
			if err != nil {
				return fmt.Errorf("invalid JWT_DURATION: %w", err)
			}

			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
			}
			r, err := user.NewRole(role)
			if err != nil {
				return fmt.Errorf("invalid --role %q: %w", role, err)
			}

			token, err := jwt.NewService(cfg.Secret, duration).GenerateToken(id, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id (random when empty)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleCustomer), "customer, staff or admin")
	return cmd
}

func newSignCommand() *cobra.Command {
	var paymentRef string
	cmd := &cobra.Command{
		Use:   "sign <order-ref>",
		Short: "Sign a payment confirmation the way the gateway does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.PaymentConfig
			if err := loadSections(&cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signature.NewVerifier(cfg.Secret).Sign(args[0], paymentRef))
			return nil
		},
	}
	cmd.Flags().StringVar(&paymentRef, "payment-ref", "", "gateway payment reference")
	return cmd
}
