package entities

import "fmt"

// ProviderError 生成AIプロバイダ呼び出し自体の失敗（認証・クォータ・通信・不正リクエスト・空応答）
type ProviderError struct {
	// HTTPステータス相当。不明な場合は0
	Code   int
	Status string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider error (code=%d, status=%s)", e.Code, e.Status)
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
