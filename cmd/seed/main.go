package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"realestate/internal/auth"
	"realestate/internal/cache"
	"realestate/internal/config"
	"realestate/internal/db"
	"realestate/internal/logging"
	"realestate/internal/repository"
	"realestate/internal/seed"
	"realestate/internal/service"
)

//go:embed fixture.yaml
var defaultFixture []byte

func main() {
	_ = godotenv.Load()

	var (
		file  string
		reset bool
	)

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, categories and listings into the database",
		Long: `Loads a YAML fixture through the registration and listing code paths.
Without --file the built-in demo fixture is used.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), file, reset)
		},
	}
	rootCmd.Flags().StringVarP(&file, "file", "f", "", "fixture file (default: built-in demo data)")
	rootCmd.Flags().BoolVar(&reset, "reset", false, "drop all tables before seeding")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string, reset bool) error {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var src io.Reader = bytes.NewReader(defaultFixture)
	if file != "" {
		fh, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		defer fh.Close()
		src = fh
	}
	fixture, err := seed.Parse(src)
	if err != nil {
		return err
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if reset || cfg.ResetDB {
		logger.Warn("dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	// seeding never logs anyone in, the session manager only satisfies the auth service
	sessions := auth.NewSessionManager(
		auth.NewRedisSessionStore(cacheClient),
		auth.NewTokenSigner(cfg.SessionSecret),
		cfg.SessionTTL,
		auth.CookieConfig{Name: cfg.SessionCookieName},
	)

	userRepo := repository.NewUserRepository(gormDB)
	seeder := seed.NewSeeder(
		service.NewAuthService(userRepo, sessions, cfg.BcryptCost, logger),
		service.NewCategoryService(repository.NewCategoryRepository(gormDB), cacheClient),
		userRepo,
		repository.NewPropertyRepository(gormDB),
		logger,
	)

	start := time.Now()
	res, err := seeder.Run(ctx, fixture)
	if err != nil {
		return err
	}
	logger.Info("seed completed",
		zap.Int("users", res.Users),
		zap.Int("categories", res.Categories),
		zap.Int("properties", res.Properties),
		zap.Int("images", res.Images),
		zap.Duration("took", time.Since(start)))
	return nil
}
