package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/slotbook/internal/auth"
	"github.com/example/slotbook/internal/cache"
	"github.com/example/slotbook/internal/config"
	"github.com/example/slotbook/internal/crypto"
	"github.com/example/slotbook/internal/db"
	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/history"
	"github.com/example/slotbook/internal/logging"
	"github.com/example/slotbook/internal/migrate"
	"github.com/example/slotbook/internal/tokens"
	"github.com/example/slotbook/internal/web"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the booking web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			log, err := logging.New(cfg.DevMode)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			aead, err := crypto.New(cfg.TokenEncKey)
			if err != nil {
				return fmt.Errorf("TOKEN_ENC_KEY: %w", err)
			}

			var snapshot *cache.Snapshot
			if cfg.RedisAddr != "" {
				rdb, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
				if err != nil {
					return fmt.Errorf("redis: %w", err)
				}
				defer func() { _ = rdb.Close() }()
				snapshot = cache.NewSnapshot(rdb, cfg.SnapshotTTL, log)
				log.Info("directory snapshot cache enabled",
					zap.String("addr", cfg.RedisAddr),
					zap.Duration("ttl", cfg.SnapshotTTL))
			}

			ws := &web.Server{
				Auth:      auth.NewStore(d, cfg.CookieHashKey, cfg.CookieBlockKey),
				Tokens:    tokens.NewService(d, aead),
				History:   history.NewRepo(d),
				Directory: directory.New(cfg.DirectoryURL, log),
				Cache:     snapshot,
				Log:       log,
				BaseURL:   cfg.BaseURL,
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes(), log)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
