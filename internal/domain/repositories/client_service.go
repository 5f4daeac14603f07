package repositories

import (
	genai "google.golang.org/genai"
)

// AIクライアント共通設定
type AIClientConfig struct {
	APIKey  string
	Model   string
	// 空ならSDKのデフォルトエンドポイント
	BaseURL string
}

type ClientState string

const (
	// クライアント生成済み
	ClientReady ClientState = "ready"
	// APIキー未設定（警告のみ、分析は無効）
	ClientAbsent ClientState = "absent"
	// APIキーはあるが生成に失敗（エラー表示、分析は無効）
	ClientFailed ClientState = "failed"
)

// ClientStatus 起動時に決まるクライアントの状態。画面のバナー表示に使う
type ClientStatus struct {
	State   ClientState
	Message string
}

func (s ClientStatus) Ready() bool {
	return s.State == ClientReady
}

// GenAI Client Provider
// プロセス起動時に一度だけ生成され、以降は読み取り専用
type GenAIClientProvider interface {
	// 生成済みクライアント。Ready でなければ nil
	Client() *genai.Client

	Status() ClientStatus

	// リソースのクリーンアップ
	Close() error
}
