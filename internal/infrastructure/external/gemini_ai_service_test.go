package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"gwansang-demo/internal/domain/entities"
	"gwansang-demo/internal/domain/valueobjects"
)

// fakeGemini generateContent エンドポイントだけを持つテスト用サーバー
func fakeGemini(t *testing.T, status int, body string, gotRequest *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		if gotRequest != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, gotRequest)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *genai.Client {
	t.Helper()
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return client
}

func newTestRequest(t *testing.T) *entities.AnalysisRequest {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 50, 50)), nil))
	imageData, err := valueobjects.NewImageData(buf.Bytes())
	require.NoError(t, err)
	request, err := entities.NewAnalysisRequest("gemini-2.5-flash", "analyze this face", imageData)
	require.NoError(t, err)
	return request
}

func TestGeminiAIService_AnalyzeImage(t *testing.T) {
	t.Run("sends prompt and inline image, returns text", func(t *testing.T) {
		var got map[string]any
		srv := fakeGemini(t, http.StatusOK, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "TEST-REPORT"}]},
				"finishReason": "STOP"
			}]
		}`, &got)

		service := NewGeminiAIService(newTestClient(t, srv))
		result, err := service.AnalyzeImage(context.Background(), newTestRequest(t))

		require.NoError(t, err)
		assert.Equal(t, "TEST-REPORT", result.Text())

		contents, ok := got["contents"].([]any)
		require.True(t, ok, "request should carry contents")
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		assert.Equal(t, "analyze this face", parts[0].(map[string]any)["text"])
		inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
		assert.Equal(t, "image/jpeg", inline["mimeType"])
		assert.NotEmpty(t, inline["data"])
	})

	t.Run("api error becomes provider error", func(t *testing.T) {
		srv := fakeGemini(t, http.StatusForbidden, `{
			"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}
		}`, nil)

		service := NewGeminiAIService(newTestClient(t, srv))
		_, err := service.AnalyzeImage(context.Background(), newTestRequest(t))

		require.Error(t, err)
		var providerErr *entities.ProviderError
		require.True(t, errors.As(err, &providerErr), "got %T", err)
		assert.Contains(t, providerErr.Error(), "API key not valid")
	})

	t.Run("blocked response becomes provider error", func(t *testing.T) {
		srv := fakeGemini(t, http.StatusOK, `{
			"promptFeedback": {"blockReason": "SAFETY"}
		}`, nil)

		service := NewGeminiAIService(newTestClient(t, srv))
		_, err := service.AnalyzeImage(context.Background(), newTestRequest(t))

		var providerErr *entities.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Contains(t, providerErr.Error(), "SAFETY")
	})

	t.Run("cancelled context becomes provider error", func(t *testing.T) {
		srv := fakeGemini(t, http.StatusOK, `{}`, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		service := NewGeminiAIService(newTestClient(t, srv))
		_, err := service.AnalyzeImage(ctx, newTestRequest(t))

		var providerErr *entities.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Contains(t, err.Error(), "context canceled")
	})
}
