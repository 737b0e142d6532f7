package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/oklog/ulid/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage    = errors.New("image payload is empty")
	ErrInvalidBase64 = errors.New("image payload is not valid base64")
	ErrInvalidImage  = errors.New("image bytes could not be decoded")
)

type ImageDecodeStatus int

const (
	ImageAbsent ImageDecodeStatus = iota
	ImageDecoded
	ImageDecodeFailed
)

func (s ImageDecodeStatus) String() string {
	switch s {
	case ImageAbsent:
		return "absent"
	case ImageDecoded:
		return "decoded"
	case ImageDecodeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImageDecodeResult is the outcome of decoding a base64 image payload. Image,
// Format and Raw are set only when Status is ImageDecoded; Err only when it is
// ImageDecodeFailed.
type ImageDecodeResult struct {
	Status ImageDecodeStatus
	Image  image.Image
	Format string
	Raw    []byte
	Err    error
}

func (r ImageDecodeResult) Ok() bool {
	return r.Status == ImageDecoded
}

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeBase64Image(payload string) ImageDecodeResult
	PrepareForDetection(img image.Image, maxDimension uint) ([]byte, error)
}

type utils struct {
	jpegQuality int
}

func New() IUtils {
	return &utils{
		jpegQuality: 90,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// StripDataURI drops a "data:image/...;base64," style prefix, i.e. everything
// up to and including the first comma.
func StripDataURI(payload string) string {
	if _, after, found := strings.Cut(payload, ","); found {
		return after
	}
	return payload
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (u *utils) DecodeBase64Image(payload string) ImageDecodeResult {
	if payload == "" {
		return ImageDecodeResult{Status: ImageAbsent}
	}

	encoded := StripDataURI(payload)
	if strings.TrimSpace(encoded) == "" {
		return ImageDecodeResult{Status: ImageDecodeFailed, Err: ErrEmptyImage}
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return ImageDecodeResult{Status: ImageDecodeFailed, Err: fmt.Errorf("%w: %v", ErrInvalidBase64, err)}
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return ImageDecodeResult{Status: ImageDecodeFailed, Err: fmt.Errorf("%w: %v", ErrInvalidImage, err)}
	}

	return ImageDecodeResult{
		Status: ImageDecoded,
		Image:  img,
		Format: format,
		Raw:    raw,
	}
}

// PrepareForDetection shrinks img so that neither side exceeds maxDimension
// (keeping the aspect ratio) and re-encodes it as JPEG. A maxDimension of 0
// disables resizing.
func (u *utils) PrepareForDetection(img image.Image, maxDimension uint) ([]byte, error) {
	if img == nil {
		return nil, ErrInvalidImage
	}

	bounds := img.Bounds()
	if maxDimension > 0 && (uint(bounds.Dx()) > maxDimension || uint(bounds.Dy()) > maxDimension) {
		img = resize.Thumbnail(maxDimension, maxDimension, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: u.jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode detection frame: %w", err)
	}

	return buf.Bytes(), nil
}
