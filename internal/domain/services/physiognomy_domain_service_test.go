package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwansang-demo/internal/domain/entities"
)

type mockVisionAIService struct {
	text     string
	err      error
	panicVal any

	calls       int
	lastRequest *entities.AnalysisRequest
}

func (m *mockVisionAIService) AnalyzeImage(ctx context.Context, request *entities.AnalysisRequest) (*entities.TextResult, error) {
	m.calls++
	m.lastRequest = request
	if m.panicVal != nil {
		panic(m.panicVal)
	}
	if m.err != nil {
		return nil, m.err
	}
	return entities.NewTextResult(m.text), nil
}

func solidJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 144, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestPhysiognomyDomainService_GenerateReport(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns trimmed model text", func(t *testing.T) {
		mock := &mockVisionAIService{text: "  \nTEST-REPORT\n  "}
		service := NewPhysiognomyDomainService(mock, "gemini-2.5-flash")

		report := service.GenerateReport(ctx, solidJPEG(t))

		assert.Equal(t, entities.OutcomeSuccess, report.Outcome())
		assert.Equal(t, "TEST-REPORT", report.Text())
		require.Equal(t, 1, mock.calls)
		assert.Equal(t, PhysiognomyPrompt, mock.lastRequest.Prompt())
		assert.Equal(t, "image/jpeg", mock.lastRequest.Image().MimeType())
		assert.Equal(t, "gemini-2.5-flash", mock.lastRequest.Model())
	})

	t.Run("no client returns unavailable message", func(t *testing.T) {
		service := NewPhysiognomyDomainService(nil, "gemini-2.5-flash")

		report := service.GenerateReport(ctx, solidJPEG(t))

		assert.False(t, service.Available())
		assert.Equal(t, entities.OutcomeClientUnavailable, report.Outcome())
		assert.Equal(t, entities.ClientUnavailableMessage, report.Text())
	})

	t.Run("provider error is embedded in the report", func(t *testing.T) {
		mock := &mockVisionAIService{err: &entities.ProviderError{
			Code:   403,
			Status: "PERMISSION_DENIED",
			Err:    errors.New("Error 403, Message: API key not valid"),
		}}
		service := NewPhysiognomyDomainService(mock, "")

		report := service.GenerateReport(ctx, solidJPEG(t))

		assert.Equal(t, entities.OutcomeProviderError, report.Outcome())
		assert.Contains(t, report.Text(), "API 통신 오류")
		assert.Contains(t, report.Text(), "Error 403, Message: API key not valid")
	})

	t.Run("undecodable bytes become processing error without calling the model", func(t *testing.T) {
		mock := &mockVisionAIService{text: "unused"}
		service := NewPhysiognomyDomainService(mock, "")

		report := service.GenerateReport(ctx, []byte{0x00, 0x01, 0x02})

		assert.Equal(t, entities.OutcomeProcessingError, report.Outcome())
		assert.Contains(t, report.Text(), "분석 처리 오류")
		assert.Contains(t, report.Text(), "ImageFormatError")
		assert.Equal(t, 0, mock.calls)
	})

	t.Run("empty bytes become processing error", func(t *testing.T) {
		mock := &mockVisionAIService{text: "unused"}
		service := NewPhysiognomyDomainService(mock, "")

		report := service.GenerateReport(ctx, nil)

		assert.Equal(t, entities.OutcomeProcessingError, report.Outcome())
		assert.Contains(t, report.Text(), "image data cannot be empty")
	})

	t.Run("truncated jpeg fails full decode", func(t *testing.T) {
		mock := &mockVisionAIService{text: "unused"}
		service := NewPhysiognomyDomainService(mock, "")
		full := solidJPEG(t)

		report := service.GenerateReport(ctx, full[:len(full)/2])

		assert.Equal(t, entities.OutcomeProcessingError, report.Outcome())
		assert.Contains(t, report.Text(), "ImageFormatError")
		assert.Equal(t, 0, mock.calls)
	})

	t.Run("huge declared dimensions are rejected before decoding", func(t *testing.T) {
		mock := &mockVisionAIService{text: "unused"}
		service := NewPhysiognomyDomainService(mock, "")

		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
		data := buf.Bytes()
		binary.BigEndian.PutUint32(data[16:20], 30000)
		binary.BigEndian.PutUint32(data[20:24], 30000)
		binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

		report := service.GenerateReport(ctx, data)

		assert.Equal(t, entities.OutcomeProcessingError, report.Outcome())
		assert.Contains(t, report.Text(), "ImageFormatError 발생: image too large")
		assert.Equal(t, 0, mock.calls)
	})

	t.Run("non-provider error from service is a processing error", func(t *testing.T) {
		mock := &mockVisionAIService{err: errors.New("boom")}
		service := NewPhysiognomyDomainService(mock, "")

		report := service.GenerateReport(ctx, solidJPEG(t))

		assert.Equal(t, entities.OutcomeProcessingError, report.Outcome())
		assert.Contains(t, report.Text(), "errorString 발생: boom")
	})

	t.Run("panic inside the service is contained", func(t *testing.T) {
		mock := &mockVisionAIService{panicVal: "library fault"}
		service := NewPhysiognomyDomainService(mock, "")

		var report *entities.AnalysisReport
		require.NotPanics(t, func() {
			report = service.GenerateReport(ctx, solidJPEG(t))
		})
		assert.Equal(t, entities.OutcomeProcessingError, report.Outcome())
		assert.Contains(t, report.Text(), "library fault")
	})

	t.Run("blank model text is a provider error", func(t *testing.T) {
		mock := &mockVisionAIService{text: "   "}
		service := NewPhysiognomyDomainService(mock, "")

		report := service.GenerateReport(ctx, solidJPEG(t))

		assert.Equal(t, entities.OutcomeProviderError, report.Outcome())
		assert.NotEmpty(t, report.Text())
	})

	t.Run("gif capture is converted before upload", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, img, nil))

		mock := &mockVisionAIService{text: "ok"}
		service := NewPhysiognomyDomainService(mock, "")

		report := service.GenerateReport(ctx, buf.Bytes())

		assert.True(t, report.IsSuccess())
		assert.Equal(t, "image/jpeg", mock.lastRequest.Image().MimeType())
	})
}

func TestPhysiognomyDomainService_Idempotent(t *testing.T) {
	mock := &mockVisionAIService{text: "TEST-REPORT"}
	service := NewPhysiognomyDomainService(mock, "")
	data := solidJPEG(t)

	first := service.GenerateReport(context.Background(), data)
	second := service.GenerateReport(context.Background(), data)

	if diff := cmp.Diff(first.Text(), second.Text()); diff != "" {
		t.Errorf("GenerateReport() not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Outcome(), second.Outcome())
}

func TestPhysiognomyPrompt(t *testing.T) {
	sections := []string{
		"**[ 얼굴형 및 골격 분석 ]**",
		"**[ 오관(五官) 분석 ]**",
		"**[ 삼정(三停) 분석 ]**",
		"**[ 종합 운세 및 조언 ]**",
		"'**[항목명]**'",
		"500자 이상",
	}
	for _, s := range sections {
		assert.Contains(t, PhysiognomyPrompt, s)
	}
	for _, feature := range []string{"1. 눈", "2. 코", "3. 입", "4. 귀", "5. 눈썹"} {
		assert.Contains(t, PhysiognomyPrompt, feature)
	}
}

func TestErrorTypeName(t *testing.T) {
	assert.Equal(t, "errorString", errorTypeName(errors.New("x")))
	assert.Equal(t, "ProviderError", errorTypeName(&entities.ProviderError{}))
}
