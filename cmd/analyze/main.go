package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gwansang-demo/internal/application/usecases"
	"gwansang-demo/internal/config"
	"gwansang-demo/internal/domain/repositories"
	domainservices "gwansang-demo/internal/domain/services"
	"gwansang-demo/internal/infrastructure/external"
	"gwansang-demo/internal/infrastructure/services"
	"gwansang-demo/internal/logging"
)

var validExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func main() {
	inputDir := flag.String("in", "images", "directory containing face photos")
	outputDir := flag.String("out", "reports", "directory to write markdown reports to")
	flag.Parse()

	cfg, err := config.Load(config.DefaultOptions())
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	provider := services.NewGenAIClientProvider(ctx, repositories.AIClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}, nil)
	defer provider.Close()

	if !provider.Status().Ready() {
		fmt.Fprintln(os.Stderr, provider.Status().Message)
		os.Exit(1)
	}

	domainService := domainservices.NewPhysiognomyDomainService(external.NewGeminiAIService(provider.Client()), cfg.GeminiModel)
	analysisUseCase := usecases.NewAnalysisUseCase(domainService, cfg.RequestTimeout)

	written, err := analyzeDir(ctx, analysisUseCase, *inputDir, *outputDir)
	if err != nil {
		slog.Error("Batch analysis failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Batch analysis finished", "reports", written, "out", *outputDir)
}

// analyzeDir 入力ディレクトリ内の画像ごとに <名前>.md を書き出す。分析の失敗もレポートとして保存する
func analyzeDir(ctx context.Context, uc *usecases.AnalysisUseCase, inputDir, outputDir string) (int, error) {
	files, err := os.ReadDir(inputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read input directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	for _, file := range files {
		if file.IsDir() || !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(file.Name()))) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(inputDir, file.Name()))
		if err != nil {
			return written, fmt.Errorf("failed to read %s: %w", file.Name(), err)
		}

		output := uc.Execute(ctx, usecases.AnalysisInput{ImageData: data})
		slog.Info("Analyzed", "file", file.Name(), "outcome", output.Report.Outcome(), "elapsed", output.Elapsed)

		name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())) + ".md"
		content := output.Report.Text() + "\n\n---\n\n" + output.CompletionMessage + "\n"
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write report for %s: %w", file.Name(), err)
		}
		written++
	}
	return written, nil
}
