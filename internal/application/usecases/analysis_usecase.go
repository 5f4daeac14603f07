package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gwansang-demo/internal/domain/entities"
	"gwansang-demo/internal/domain/services"
	"gwansang-demo/internal/infrastructure/metrics"
)

const completionFormat = "분석 완료! (처리 시간: %.2f초)"

type AnalysisUseCase struct {
	domainService *services.PhysiognomyDomainService
	// 0 ならタイムアウトなし
	timeout time.Duration
	now     func() time.Time
}

func NewAnalysisUseCase(
	domainService *services.PhysiognomyDomainService,
	timeout time.Duration,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		domainService: domainService,
		timeout:       timeout,
		now:           time.Now,
	}
}

type AnalysisInput struct {
	ImageData []byte
}

type AnalysisOutput struct {
	Report            *entities.AnalysisReport
	Elapsed           time.Duration
	CompletionMessage string
}

func (uc *AnalysisUseCase) Available() bool {
	return uc.domainService.Available()
}

// Execute 1回のキャプチャにつき1回、同期的にレポートを生成する
func (uc *AnalysisUseCase) Execute(ctx context.Context, input AnalysisInput) *AnalysisOutput {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	start := uc.now()
	report := uc.domainService.GenerateReport(ctx, input.ImageData)
	elapsed := uc.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	metrics.ObserveAnalysis(string(report.Outcome()), elapsed.Seconds())
	slog.Info("Analysis finished", "outcome", report.Outcome(), "elapsed", elapsed)

	return &AnalysisOutput{
		Report:            report,
		Elapsed:           elapsed,
		CompletionMessage: FormatCompletionMessage(elapsed),
	}
}

func FormatCompletionMessage(elapsed time.Duration) string {
	return fmt.Sprintf(completionFormat, elapsed.Seconds())
}
