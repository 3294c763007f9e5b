// Command claimsd runs the claims backend and its maintenance tasks.
//
// @title                      Claims Backend API
// @version                    1.0
// @description                Case-file backend for insurance claims: forms, claim lifecycle, documents and users.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/config"
	"github.com/tbourn/claims-backend/internal/repo"
	"github.com/tbourn/claims-backend/internal/sysutil"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "claimsd",
		Short:         "Claims backend: HTTP API and maintenance tasks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), purgeCmd(), userCmd())
	return root
}

// loadConfig reads .env files (missing ones are fine), loads the
// configuration and installs the global logger.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load(".env.local", ".env")
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	return cfg, nil
}

// openDB connects with bounded retries and migrates the schema.
func openDB(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		repo.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func version() string {
	return sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), Version)
}
