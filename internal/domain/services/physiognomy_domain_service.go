package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gwansang-demo/internal/domain/entities"
	"gwansang-demo/internal/domain/repositories"
	"gwansang-demo/internal/domain/valueobjects"
)

// PhysiognomyDomainService 画像1枚から観相レポートを生成する
//
// GenerateReport はどの経路でも表示可能なレポートを返し、エラーもパニックも外に出さない。
type PhysiognomyDomainService struct {
	aiService repositories.VisionAIService
	model     string
}

// aiService が nil の場合は分析不可（APIキー未設定・クライアント生成失敗）として扱う
func NewPhysiognomyDomainService(aiService repositories.VisionAIService, model string) *PhysiognomyDomainService {
	return &PhysiognomyDomainService{
		aiService: aiService,
		model:     model,
	}
}

func (s *PhysiognomyDomainService) Available() bool {
	return s.aiService != nil
}

func (s *PhysiognomyDomainService) GenerateReport(ctx context.Context, imageBytes []byte) (report *entities.AnalysisReport) {
	if s.aiService == nil {
		slog.Warn("GenerateReport", "outcome", entities.OutcomeClientUnavailable)
		return entities.NewClientUnavailableReport()
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("GenerateReport recovered from panic", "panic", r)
			report = panicReport(r)
		}
	}()

	imageData, err := valueobjects.NewImageData(imageBytes)
	if err != nil {
		return processingErrorReport(err)
	}

	if _, err := imageData.Decode(); err != nil {
		return processingErrorReport(err)
	}

	upload, err := imageData.ForUpload()
	if err != nil {
		return processingErrorReport(err)
	}

	request, err := entities.NewAnalysisRequest(s.model, PhysiognomyPrompt, upload)
	if err != nil {
		return processingErrorReport(err)
	}

	slog.Info("GenerateReport",
		"requestID", request.ID(),
		"model", request.Model(),
		"format", upload.Format(),
		"imageSize", len(upload.Data()))

	result, err := s.aiService.AnalyzeImage(ctx, request)
	if err != nil {
		var providerErr *entities.ProviderError
		if errors.As(err, &providerErr) {
			slog.Error("GenerateReport provider error", "requestID", request.ID(), "code", providerErr.Code, "error", providerErr)
			return entities.NewProviderErrorReport(providerErr.Error())
		}
		slog.Error("GenerateReport failed", "requestID", request.ID(), "error", err)
		return processingErrorReport(err)
	}

	if result == nil {
		return entities.NewProviderErrorReport("no result returned from model")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return entities.NewProviderErrorReport("empty response from model")
	}

	return entities.NewSuccessReport(text)
}

func processingErrorReport(err error) *entities.AnalysisReport {
	slog.Warn("GenerateReport processing error", "type", errorTypeName(err), "error", err)
	return entities.NewProcessingErrorReport(errorTypeName(err), err.Error())
}

func panicReport(r any) *entities.AnalysisReport {
	if err, ok := r.(error); ok {
		return entities.NewProcessingErrorReport(errorTypeName(err), err.Error())
	}
	return entities.NewProcessingErrorReport("panic", fmt.Sprint(r))
}

// errorTypeName "*valueobjects.ImageFormatError" -> "ImageFormatError"
func errorTypeName(err error) string {
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
