package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gemini-chat/internal/config"
	"gemini-chat/internal/db"
	apihttp "gemini-chat/internal/http"
	"gemini-chat/internal/llm"
	"gemini-chat/internal/repository"
	"gemini-chat/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	messageRepo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("store connect", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	generator, closeGenerator, err := llm.NewGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("llm client init", zap.String("provider", cfg.LLMProvider), zap.Error(err))
	}
	defer closeGenerator()

	locker, closeLocker, err := newUserLocker(ctx, cfg)
	if err != nil {
		logger.Fatal("redis connect", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	defer closeLocker()
	if _, ok := locker.(service.NoopUserLocker); ok {
		logger.Info("REDIS_ADDR not set, chats are not serialized per user")
	}

	chatSvc := service.NewChatService(logger, messageRepo, generator, locker, service.ChatConfig{
		HistoryWindow: cfg.HistoryWindow,
		HistoryLimit:  cfg.HistoryLimit,
	})
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	router := apihttp.NewRouter(logger, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           apihttp.WithCORS(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("store", cfg.StoreDriver),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("llm_model", cfg.LLMModel),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

// newUserLocker usa redis si REDIS_ADDR está configurado; si no, devuelve un NoopUserLocker.
// Un redis configurado pero inalcanzable es un error.
func newUserLocker(ctx context.Context, cfg *config.Config) (service.UserLocker, func(), error) {
	redisClient, err := db.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if redisClient == nil {
		return service.NoopUserLocker{}, func() {}, nil
	}
	return service.NewRedisUserLocker(redisClient, cfg.ChatLockTTL), func() { _ = redisClient.Close() }, nil
}
