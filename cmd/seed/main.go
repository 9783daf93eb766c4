package main

import (
	"context"
	"log"

	"github.com/showfolio/showfolio-backend/config"
	"github.com/showfolio/showfolio-backend/internal/bootstrap"
	"github.com/showfolio/showfolio-backend/internal/catalog"
)

// Installs the stock category and skill catalogs. Safe to re-run: a
// catalog that already matches is left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var cache *catalog.Cache
	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Printf("Warning: redis unavailable, skipping cache invalidation: %v", err)
	} else {
		defer rdb.Close()
		cache = catalog.NewCache(rdb)
	}

	repo := catalog.NewRepository(db)
	if err := catalog.Seed(ctx, repo, cache); err != nil {
		log.Fatalf("failed to seed catalogs: %v", err)
	}

	log.Println("catalogs seeded")
}
