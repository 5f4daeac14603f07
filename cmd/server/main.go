package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwansang-demo/internal/application/usecases"
	"gwansang-demo/internal/config"
	"gwansang-demo/internal/domain/repositories"
	domainservices "gwansang-demo/internal/domain/services"
	"gwansang-demo/internal/infrastructure/api"
	"gwansang-demo/internal/infrastructure/external"
	"gwansang-demo/internal/infrastructure/metrics"
	"gwansang-demo/internal/infrastructure/services"
	"gwansang-demo/internal/logging"
)

func main() {
	cfg, err := config.Load(config.DefaultOptions())
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure layer
	provider := services.NewGenAIClientProvider(ctx, repositories.AIClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}, nil)
	defer provider.Close()

	status := provider.Status()
	metrics.SetClientReady(status.Ready())

	// クライアントがない場合は nil のまま渡す（分析時に ClientUnavailable を返す）
	var visionAIService repositories.VisionAIService
	if status.Ready() {
		visionAIService = external.NewGeminiAIService(provider.Client())
	} else {
		slog.Warn("Gemini client is not available", "state", status.State, "message", status.Message)
	}

	// Initialize domain layer
	domainService := domainservices.NewPhysiognomyDomainService(visionAIService, cfg.GeminiModel)

	// Initialize application layer
	analysisUseCase := usecases.NewAnalysisUseCase(domainService, cfg.RequestTimeout)

	// Initialize API layer
	handler := api.NewPhysiognomyHandler(analysisUseCase, status, cfg.MaxUploadBytes)
	router := api.NewRouter(handler, api.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"model", cfg.GeminiModel,
			"credential", cfg.CredentialStatus(),
			"client", status.State,
			"rateLimitRPS", cfg.RateLimitRPS,
			"requestTimeout", cfg.RequestTimeout)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down server gracefully", "error", err)
	}
}
