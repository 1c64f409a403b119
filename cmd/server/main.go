// @title           Blog API
// @version         1.0
// @description     Backend for a blogging platform: GraphQL query/mutation endpoint, image uploads, JWT authentication.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/daskousik/blog-api/internal/api"
	mongodb "github.com/daskousik/blog-api/internal/infrastructure/db/mongo"
	"github.com/daskousik/blog-api/internal/pkg/config"
	"github.com/daskousik/blog-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := mongodb.NewPostRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create post indexes")
	}

	e, err := api.NewRouter(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
