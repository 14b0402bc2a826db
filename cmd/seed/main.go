// Command seed loads the sneaker catalog from a CSV file and can add demo users.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sneakercloset/internal/cache"
	"sneakercloset/internal/config"
	"sneakercloset/internal/database"
	"sneakercloset/internal/middleware"
	"sneakercloset/internal/seed"
)

func main() {
	if err := run(); err != nil {
		middleware.Logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "sneakers.csv", "CSV file with the sneaker catalog")
	clean := flag.Bool("clean", false, "Remove catalog, ledgers and follows before seeding")
	demoUsers := flag.Int("demo-users", 0, "Number of fake users to create")
	batchSize := flag.Int("batch", 500, "Catalog rows per insert")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for demo users")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	// Seeded writes must not leave stale cached rows behind.
	cache.InitRedis(cfg.RedisURL)

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	middleware.Logger.Info("Seeding catalog",
		slog.String("file", *file), slog.Bool("clean", *clean), slog.Int("demo_users", *demoUsers))

	err = seed.NewSeeder(db).Run(context.Background(), f, seed.Options{
		Clean:     *clean,
		DemoUsers: *demoUsers,
		BatchSize: *batchSize,
		RandSeed:  *randSeed,
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("Seeding complete")
	if *demoUsers > 0 {
		middleware.Logger.Info("Demo users share one password", slog.String("password", seed.DemoPassword))
	}
	return nil
}
