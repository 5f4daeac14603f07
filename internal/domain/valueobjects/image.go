package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
	GIF  ImageFormat = "gif"
	WEBP ImageFormat = "webp"
)

// MaxPixels 展開後の画素数の上限。小さなファイルで巨大な寸法を宣言する画像を弾く
const MaxPixels = 50_000_000

// Geminiが受け付けないフォーマットはJPEGへ変換してから送信する
var uploadableFormats = map[ImageFormat]bool{
	JPEG: true,
	PNG:  true,
	WEBP: true,
}

// ImageFormatError 画像として扱えないバイト列
type ImageFormatError struct {
	Reason string
	Err    error
}

func (e *ImageFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ImageFormatError) Unwrap() error {
	return e.Err
}

// ImageData キャプチャされた画像（リクエスト単位で破棄）
type ImageData struct {
	data   []byte
	format ImageFormat
}

func NewImageData(data []byte) (*ImageData, error) {
	if len(data) == 0 {
		return nil, &ImageFormatError{Reason: "image data cannot be empty"}
	}

	config, format, err := detectFormat(data)
	if err != nil {
		return nil, &ImageFormatError{Reason: "unsupported image format", Err: err}
	}

	if config.Width <= 0 || config.Height <= 0 {
		return nil, &ImageFormatError{Reason: fmt.Sprintf("invalid image dimensions %dx%d", config.Width, config.Height)}
	}
	if int64(config.Width)*int64(config.Height) > MaxPixels {
		return nil, &ImageFormatError{
			Reason: fmt.Sprintf("image too large: %dx%d exceeds %d pixels", config.Width, config.Height, MaxPixels),
		}
	}

	return &ImageData{
		data:   data,
		format: format,
	}, nil
}

func (i *ImageData) Data() []byte {
	return i.data
}

func (i *ImageData) Format() ImageFormat {
	return i.format
}

func (i *ImageData) MimeType() string {
	return "image/" + string(i.format)
}

func (i *ImageData) IsJPEG() bool {
	return i.format == JPEG
}

// Decode 画像全体をデコードする。ヘッダだけ正しい壊れたデータもここで弾く
func (i *ImageData) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(i.data))
	if err != nil {
		return nil, &ImageFormatError{Reason: "failed to decode image", Err: err}
	}
	return img, nil
}

func (i *ImageData) ToJPEG() (*ImageData, error) {
	if i.IsJPEG() {
		return i, nil
	}

	img, err := i.Decode()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: 90}
	if err := jpeg.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	return &ImageData{
		data:   buf.Bytes(),
		format: JPEG,
	}, nil
}

// ForUpload モデルが受け付けるフォーマットならそのまま、そうでなければJPEGに変換して返す
func (i *ImageData) ForUpload() (*ImageData, error) {
	if uploadableFormats[i.format] {
		return i, nil
	}
	return i.ToJPEG()
}

func (i *ImageData) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

func (i *ImageData) DataURL() string {
	return "data:" + i.MimeType() + ";base64," + i.ToBase64()
}

func detectFormat(data []byte) (image.Config, ImageFormat, error) {
	reader := bytes.NewReader(data)
	config, format, err := image.DecodeConfig(reader)
	if err != nil {
		return image.Config{}, "", err
	}

	switch format {
	case "jpeg":
		return config, JPEG, nil
	case "png":
		return config, PNG, nil
	case "gif":
		return config, GIF, nil
	case "webp":
		return config, WEBP, nil
	default:
		return image.Config{}, "", fmt.Errorf("unsupported format: %s", format)
	}
}
