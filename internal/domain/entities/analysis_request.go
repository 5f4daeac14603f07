package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gwansang-demo/internal/domain/valueobjects"
)

type AnalysisRequestID string

// AnalysisRequest 1回のキャプチャに対する分析リクエスト（永続化しない）
type AnalysisRequest struct {
	id        AnalysisRequestID
	model     string
	prompt    string
	image     *valueobjects.ImageData
	createdAt time.Time
}

func NewAnalysisRequest(model string, prompt string, image *valueobjects.ImageData) (*AnalysisRequest, error) {
	if image == nil {
		return nil, fmt.Errorf("image is required")
	}

	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	if model == "" {
		// デフォルトモデル
		model = "gemini-2.5-flash"
	}

	return &AnalysisRequest{
		id:        AnalysisRequestID("req_" + uuid.NewString()),
		model:     model,
		prompt:    prompt,
		image:     image,
		createdAt: time.Now(),
	}, nil
}

func (r *AnalysisRequest) ID() AnalysisRequestID {
	return r.id
}

func (r *AnalysisRequest) Model() string {
	return r.model
}

func (r *AnalysisRequest) Prompt() string {
	return r.prompt
}

func (r *AnalysisRequest) Image() *valueobjects.ImageData {
	return r.image
}

func (r *AnalysisRequest) CreatedAt() time.Time {
	return r.createdAt
}
