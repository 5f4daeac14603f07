package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	genai "google.golang.org/genai"

	"gwansang-demo/internal/domain/repositories"
)

const (
	absentMessage = "⚠️ GEMINI_API_KEY가 설정되지 않아 AI 분석을 실행할 수 없습니다. Secrets 설정을 확인하세요."
	failedMessage = "Gemini 클라이언트 초기화 오류: API 키를 확인해주세요."
)

// テストで差し替える
var genaiNewClient = genai.NewClient

// genAIClientProvider プロセス起動時に一度だけ生成するGenAIクライアント
// 生成後は読み取り専用なのでロックは持たない
type genAIClientProvider struct {
	client *genai.Client
	status repositories.ClientStatus
}

// NewGenAIClientProvider APIキーがなければ生成をスキップし、生成に失敗しても error は返さない。
// どちらの場合も Status() に理由が残り、Client() は nil になる。
func NewGenAIClientProvider(
	ctx context.Context,
	config repositories.AIClientConfig,
	httpClient *http.Client,
) repositories.GenAIClientProvider {
	if config.APIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; analysis is disabled")
		return &genAIClientProvider{
			status: repositories.ClientStatus{
				State:   repositories.ClientAbsent,
				Message: absentMessage,
			},
		}
	}

	client, err := newGenAIClient(ctx, config, httpClient)
	if err != nil {
		slog.Error("failed to create GenAI client; analysis is disabled", "error", err)
		return &genAIClientProvider{
			status: repositories.ClientStatus{
				State:   repositories.ClientFailed,
				Message: failedMessage,
			},
		}
	}

	slog.Info("GenAI client ready", "model", config.Model)
	return &genAIClientProvider{
		client: client,
		status: repositories.ClientStatus{State: repositories.ClientReady},
	}
}

func newGenAIClient(ctx context.Context, config repositories.AIClientConfig, httpClient *http.Client) (client *genai.Client, err error) {
	// ライブラリ内部のパニックも生成失敗として扱う
	defer func() {
		if r := recover(); r != nil {
			client, err = nil, fmt.Errorf("panic while creating GenAI client: %v", r)
		}
	}()

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err = genaiNewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

func (p *genAIClientProvider) Client() *genai.Client {
	return p.client
}

func (p *genAIClientProvider) Status() repositories.ClientStatus {
	return p.status
}

func (p *genAIClientProvider) Close() error {
	// GenAI Clientはリソースクリーンアップ不要
	p.client = nil
	return nil
}
