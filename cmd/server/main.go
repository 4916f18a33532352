package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/config"
	"github.com/qforge/qbank-backend/internal/database"
	"github.com/qforge/qbank-backend/internal/handler"
	"github.com/qforge/qbank-backend/internal/logger"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/repository"
	"github.com/qforge/qbank-backend/internal/router"
	"github.com/qforge/qbank-backend/internal/service"
	"github.com/qforge/qbank-backend/internal/validator"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QBank Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// The access table is a plain value built once at startup and handed
	// to everything that needs it.
	accessPolicy := policy.New()

	questionRepo := repository.NewQuestionRepository(pool)
	subQuestionRepo := repository.NewSubQuestionRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	paperRepo := repository.NewPaperRepository(pool)
	questTemplateRepo := repository.NewQuestTemplateRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService)
	questionService := service.NewQuestionService(questionRepo, log)
	subQuestionService := service.NewSubQuestionService(subQuestionRepo, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	tagService := service.NewTagService(tagRepo, log)
	templateService := service.NewTemplateService(templateRepo, log)
	paperService := service.NewPaperService(paperRepo, questionRepo, log)
	questTemplateService := service.NewQuestTemplateService(questTemplateRepo, log)

	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, userService),
		Paper:         handler.NewPaperHandler(paperService, accessPolicy),
		Template:      handler.NewTemplateHandler(templateService, accessPolicy),
		Subject:       handler.NewSubjectHandler(subjectService, accessPolicy),
		Tag:           handler.NewTagHandler(tagService, accessPolicy),
		QuestTemplate: handler.NewQuestTemplateHandler(questTemplateService, accessPolicy),
		User:          handler.NewUserHandler(userService, accessPolicy),
		Questions:     router.NewQuestionHandlers(questionService, accessPolicy),
		SubQuestions:  router.NewSubQuestionHandlers(subQuestionService, accessPolicy),
	}

	r := router.SetupRouter(authService, accessPolicy, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
