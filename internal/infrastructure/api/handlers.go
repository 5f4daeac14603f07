package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"gwansang-demo/internal/application/usecases"
	"gwansang-demo/internal/domain/repositories"
	"gwansang-demo/internal/domain/valueobjects"
	"gwansang-demo/internal/infrastructure/render"
)

const (
	defaultMaxFileSize = 10 * 1024 * 1024 // 10MB
	// multipart の境界・ヘッダ分
	multipartOverhead = 64 << 10
)

var (
	errNoImage       = errors.New("no image captured")
	errImageTooLarge = errors.New("image exceeds upload limit")
)

type PhysiognomyHandler struct {
	analysisUseCase *usecases.AnalysisUseCase
	clientStatus    repositories.ClientStatus
	maxFileSize     int64
}

func NewPhysiognomyHandler(
	analysisUseCase *usecases.AnalysisUseCase,
	clientStatus repositories.ClientStatus,
	maxFileSize int64,
) *PhysiognomyHandler {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &PhysiognomyHandler{
		analysisUseCase: analysisUseCase,
		clientStatus:    clientStatus,
		maxFileSize:     maxFileSize,
	}
}

// 起動時の状態に応じたバナー（Ready なら表示しない）
func (h *PhysiognomyHandler) banner() *banner {
	switch h.clientStatus.State {
	case repositories.ClientAbsent:
		return &banner{Level: "warning", Message: h.clientStatus.Message}
	case repositories.ClientFailed:
		return &banner{Level: "error", Message: h.clientStatus.Message}
	default:
		return nil
	}
}

// HandleIndex Idle 状態のページ
func (h *PhysiognomyHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, pageData{
		State:  stateIdle,
		Banner: h.banner(),
	})
}

// HandleAnalyze JavaScriptなしのフォーム送信。Reported 状態のページを返す
func (h *PhysiognomyHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	imageData, err := h.readImage(w, r)
	if err != nil {
		status, message := h.inputError(err)
		h.renderPage(w, status, pageData{
			State:  stateIdle,
			Banner: h.banner(),
			Notice: message,
		})
		return
	}

	output := h.analysisUseCase.Execute(r.Context(), usecases.AnalysisInput{ImageData: imageData})

	h.renderPage(w, http.StatusOK, pageData{
		State:             stateReported,
		Banner:            h.banner(),
		CapturedImage:     template.URL(imageDataURL(imageData)),
		ReportHTML:        template.HTML(render.MarkdownToHTML(output.Report.Text())),
		CompletionMessage: output.CompletionMessage,
	})
}

// HandleAnalyzeAPI ページのスクリプトから呼ばれるJSON版
// 分析の失敗もレポート本文として 200 で返す。4xx は入力そのものの問題のみ
func (h *PhysiognomyHandler) HandleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	imageData, err := h.readImage(w, r)
	if err != nil {
		status, message := h.inputError(err)
		h.sendError(w, message, status)
		return
	}

	output := h.analysisUseCase.Execute(r.Context(), usecases.AnalysisInput{ImageData: imageData})
	if r.Context().Err() != nil {
		// クライアントが離脱済み。結果は捨てる
		slog.Info("client went away; discarding report", "outcome", output.Report.Outcome())
		return
	}

	mimeType, encoded := encodeImage(imageData)
	response := map[string]any{
		"success": output.Report.IsSuccess(),
		"outcome": output.Report.Outcome(),
		"state":   stateReported,
		"image": map[string]string{
			"data": encoded,
			"type": mimeType,
		},
		"report_markdown":    output.Report.Text(),
		"report_html":        render.MarkdownToHTML(output.Report.Text()),
		"elapsed_seconds":    output.Elapsed.Seconds(),
		"completion_message": output.CompletionMessage,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *PhysiognomyHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *PhysiognomyHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	// 上限はファイル本体に対して。リクエスト全体には multipart の分を上乗せする
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, errNoImage
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		return nil, errImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, errImageTooLarge
	}
	if len(data) == 0 {
		return nil, errNoImage
	}
	return data, nil
}

func (h *PhysiognomyHandler) inputError(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr), errors.Is(err, errImageTooLarge):
		return http.StatusRequestEntityTooLarge, "사진이 너무 큽니다. 더 작은 사진으로 다시 시도해주세요."
	case errors.Is(err, errNoImage), errors.Is(err, http.ErrNotMultipart):
		return http.StatusBadRequest, "사진을 촬영하거나 선택해주세요."
	default:
		slog.Warn("failed to read uploaded image", "error", err)
		return http.StatusBadRequest, "사진을 읽을 수 없습니다. 다시 촬영해주세요."
	}
}

func (h *PhysiognomyHandler) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		slog.Error("Failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *PhysiognomyHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// 画像として解釈できないバイト列でもそのまま表示用に返す（レポート側にエラーが出る）
func encodeImage(data []byte) (mimeType string, encoded string) {
	if imageData, err := valueobjects.NewImageData(data); err == nil {
		return imageData.MimeType(), imageData.ToBase64()
	}
	return http.DetectContentType(data), base64.StdEncoding.EncodeToString(data)
}

func imageDataURL(data []byte) string {
	if imageData, err := valueobjects.NewImageData(data); err == nil {
		return imageData.DataURL()
	}
	mimeType, encoded := encodeImage(data)
	return "data:" + mimeType + ";base64," + encoded
}
