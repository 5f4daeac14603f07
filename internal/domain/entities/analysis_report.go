package entities

import "fmt"

// Outcome 分析結果の種別。呼び出し側は例外ではなくこの値で分岐する
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeClientUnavailable Outcome = "client_unavailable"
	OutcomeProviderError     Outcome = "provider_error"
	OutcomeProcessingError   Outcome = "processing_error"
)

const (
	ClientUnavailableMessage = "API 키가 유효하지 않아 AI 분석 기능을 사용할 수 없습니다."

	providerErrorFormat   = "**[ API 통신 오류 ]**\n\nGemini API 호출에 실패했습니다. 코드를 확인해주세요. (오류 상세: %s)"
	processingErrorFormat = "**[ 분석 처리 오류 ]**\n\n이미지 처리 중 예상치 못한 오류가 발생했습니다. (오류 상세: %s 발생: %s)"
)

// AnalysisReport 表示可能なテキストを必ず持つ分析結果
type AnalysisReport struct {
	outcome Outcome
	text    string
	detail  string
}

func NewSuccessReport(text string) *AnalysisReport {
	return &AnalysisReport{
		outcome: OutcomeSuccess,
		text:    text,
	}
}

func NewClientUnavailableReport() *AnalysisReport {
	return &AnalysisReport{
		outcome: OutcomeClientUnavailable,
		text:    ClientUnavailableMessage,
	}
}

func NewProviderErrorReport(detail string) *AnalysisReport {
	return &AnalysisReport{
		outcome: OutcomeProviderError,
		text:    fmt.Sprintf(providerErrorFormat, detail),
		detail:  detail,
	}
}

func NewProcessingErrorReport(errorType string, message string) *AnalysisReport {
	return &AnalysisReport{
		outcome: OutcomeProcessingError,
		text:    fmt.Sprintf(processingErrorFormat, errorType, message),
		detail:  errorType + ": " + message,
	}
}

func (r *AnalysisReport) Outcome() Outcome {
	return r.outcome
}

func (r *AnalysisReport) Text() string {
	return r.text
}

// Detail エラー時の詳細（成功時は空）
func (r *AnalysisReport) Detail() string {
	return r.detail
}

func (r *AnalysisReport) IsSuccess() bool {
	return r.outcome == OutcomeSuccess
}
