// @title           Curation Board API
// @version         1.0
// @description     Backend for the board curation service: boards of 21 curated items, templates, editing sessions and social preview images.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/curationlink/board-api/internal/api"
	"github.com/curationlink/board-api/internal/core/service"
	"github.com/curationlink/board-api/internal/infrastructure/config"
	mongodb "github.com/curationlink/board-api/internal/infrastructure/db/mongo"
	redisdb "github.com/curationlink/board-api/internal/infrastructure/db/redis"
	"github.com/curationlink/board-api/internal/infrastructure/queue"
	"github.com/curationlink/board-api/internal/ogimage"
	"github.com/curationlink/board-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine, the environment may carry everything already.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "board-api",
		Pretty:  cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	boardRepo := mongodb.NewBoardRepository(db)
	templateRepo := mongodb.NewTemplateRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	if err := boardRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("board index creation failed")
	}
	if err := templateRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("template index creation failed")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	// --- Preview pipeline ---
	var renderer *ogimage.Renderer
	if cfg.OGFontPath != "" {
		renderer, err = ogimage.NewRendererFromFile(cfg.OGFontPath)
	} else {
		renderer, err = ogimage.NewRenderer()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("renderer initialisation failed")
	}
	previewService := service.NewPreviewService(boardRepo, renderer, redisdb.NewImageCache(rdb), log)

	dispatcher := queue.NewDispatcher(cfg.RenderWorkers, previewService, log)
	dispatcher.Start(ctx)

	// --- Use cases ---
	boardService := service.NewBoardService(boardRepo, userRepo, dispatcher, cfg.AppBaseURL, log)
	templateService := service.NewTemplateService(templateRepo, log)
	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(userService, cfg.IdentitySecret, cfg.SessionSecret, 24*time.Hour, cfg.AdminSubjects, log)
	draftService := service.NewDraftService(redisdb.NewDraftStore(rdb), boardService, templateRepo, log)

	e := api.NewRouter(api.Deps{
		Boards:        boardService,
		Templates:     templateService,
		Users:         userService,
		Auth:          authService,
		Drafts:        draftService,
		Preview:       previewService,
		SessionSecret: cfg.SessionSecret,
		DB:            db,
		RDB:           rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
