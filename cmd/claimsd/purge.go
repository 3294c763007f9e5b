package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/tbourn/claims-backend/internal/http"
	"github.com/tbourn/claims-backend/internal/repo"
)

// purgeCmd drops claims whose soft-delete retention ran out and expired
// idempotency records. It is meant for cron.
func purgeCmd() *cobra.Command {
	var skipClaims, skipIdem bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired soft-deleted claims and idempotency records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close(db)

			svcs, _, idem := httpapi.Services(db, cfg)
			if !skipClaims {
				n, err := svcs.Claims.Purge(ctx)
				if err != nil {
					return fmt.Errorf("purge claims: %w", err)
				}
				log.Info().Int64("claims", n).Msg("purged soft-deleted claims")
				fmt.Fprintf(cmd.OutOrStdout(), "claims purged: %d\n", n)
			}
			if !skipIdem {
				n, err := idem.Purge(ctx)
				if err != nil {
					return fmt.Errorf("purge idempotency: %w", err)
				}
				log.Info().Int64("records", n).Msg("purged idempotency records")
				fmt.Fprintf(cmd.OutOrStdout(), "idempotency records purged: %d\n", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipClaims, "skip-claims", false, "leave soft-deleted claims alone")
	cmd.Flags().BoolVar(&skipIdem, "skip-idempotency", false, "leave idempotency records alone")
	return cmd
}
