package repositories

import (
	"context"

	"gwansang-demo/internal/domain/entities"
)

// VisionAIService 画像＋プロンプトからテキストを生成するマルチモーダルAI
//
// 呼び出し自体が失敗した場合は *entities.ProviderError を返すこと。
type VisionAIService interface {
	AnalyzeImage(ctx context.Context, request *entities.AnalysisRequest) (*entities.TextResult, error)
}
