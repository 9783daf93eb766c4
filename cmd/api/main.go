package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/showfolio/showfolio-backend/config"
	"github.com/showfolio/showfolio-backend/internal/auth"
	"github.com/showfolio/showfolio-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Printf("Warning: redis unavailable, catalog cache disabled: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	var authClient *fbauth.Client
	if cfg.Auth.FirebaseCredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(cfg.Auth.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("failed to initialize firebase auth: %v", err)
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, using X-User-Id dev auth")
	}

	r, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "showfolio-backend",
		Version:     cfg.App.Version,
		DB:          db,
		Redis:       rdb,
		AuthClient:  authClient,
		UploadDir:   cfg.Storage.UploadDir,
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	log.Printf("listening on :%s", cfg.Server.Port)
	log.Fatal(r.Run(":" + cfg.Server.Port))
}
