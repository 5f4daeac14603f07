package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gwansang-demo/internal/domain/entities"
	"gwansang-demo/internal/domain/repositories"

	"google.golang.org/genai"
)

type GeminiAIService struct {
	genAIClient *genai.Client
}

func NewGeminiAIService(genAIClient *genai.Client) repositories.VisionAIService {
	return &GeminiAIService{
		genAIClient: genAIClient,
	}
}

// AnalyzeImage プロンプトと画像1枚を1つのマルチモーダルリクエストとして送信する
// リトライ・ストリーミングはしない
func (s *GeminiAIService) AnalyzeImage(ctx context.Context, request *entities.AnalysisRequest) (*entities.TextResult, error) {
	image := request.Image()

	parts := []*genai.Part{
		genai.NewPartFromText(request.Prompt()),
		{
			InlineData: &genai.Blob{
				MIMEType: image.MimeType(),
				Data:     image.Data(),
			},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := s.genAIClient.Models.GenerateContent(ctx,
		request.Model(),
		contents,
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		return nil, toProviderError(err)
	}

	respText := resp.Text()

	slog.Info("AnalyzeImage",
		"requestID", request.ID(),
		"candidatesCount", len(resp.Candidates),
		"responseLength", len(respText))

	if respText == "" {
		return nil, &entities.ProviderError{
			Err: fmt.Errorf("empty response from model (%s)", blockReason(resp)),
		}
	}

	return entities.NewTextResult(respText), nil
}

func toProviderError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &entities.ProviderError{
			Code:   apiErr.Code,
			Status: apiErr.Status,
			Err:    err,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &entities.ProviderError{
			Code:   apiErrPtr.Code,
			Status: apiErrPtr.Status,
			Err:    err,
		}
	}

	// 通信エラー・キャンセル等もAPI呼び出しの失敗として扱う
	return &entities.ProviderError{
		Err: fmt.Errorf("failed to generate content: %w", err),
	}
}

// 空応答になった理由（セーフティでブロックされた場合など）
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "block reason: " + string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		return "finish reason: " + string(resp.Candidates[0].FinishReason)
	}
	return "no candidates"
}
