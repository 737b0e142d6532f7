package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"
	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestStripDataURI(t *testing.T) {
	assert.Equal(t, "abc", StripDataURI("data:image/png;base64,abc"))
	assert.Equal(t, "abc", StripDataURI("abc"))
	assert.Equal(t, "", StripDataURI("data:image/png;base64,"))
}

func TestDecodeBase64Image(t *testing.T) {
	u := New()

	t.Run("absent", func(t *testing.T) {
		res := u.DecodeBase64Image("")
		assert.Equal(t, ImageAbsent, res.Status)
		assert.False(t, res.Ok())
	})

	t.Run("plain base64 png", func(t *testing.T) {
		res := u.DecodeBase64Image(pngBase64(t, 4, 3))
		require.True(t, res.Ok(), "err: %v", res.Err)
		assert.Equal(t, "png", res.Format)
		assert.Equal(t, 4, res.Image.Bounds().Dx())
		assert.NotEmpty(t, res.Raw)
	})

	t.Run("data uri prefix", func(t *testing.T) {
		res := u.DecodeBase64Image("data:image/png;base64," + pngBase64(t, 2, 2))
		assert.Equal(t, ImageDecoded, res.Status)
	})

	t.Run("bmp", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 5, 4))))
		res := u.DecodeBase64Image("data:image/bmp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
		require.True(t, res.Ok(), "err: %v", res.Err)
		assert.Equal(t, "bmp", res.Format)
		assert.Equal(t, 5, res.Image.Bounds().Dx())
	})

	t.Run("webp", func(t *testing.T) {
		// 1x1 lossless webp
		res := u.DecodeBase64Image("data:image/webp;base64,UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA==")
		require.True(t, res.Ok(), "err: %v", res.Err)
		assert.Equal(t, "webp", res.Format)
		assert.Equal(t, 1, res.Image.Bounds().Dx())
	})

	t.Run("invalid base64", func(t *testing.T) {
		res := u.DecodeBase64Image("!!!not-base64!!!")
		assert.Equal(t, ImageDecodeFailed, res.Status)
		assert.ErrorIs(t, res.Err, ErrInvalidBase64)
		assert.Nil(t, res.Image)
	})

	t.Run("valid base64 but not an image", func(t *testing.T) {
		res := u.DecodeBase64Image(base64.StdEncoding.EncodeToString([]byte("hello world")))
		assert.Equal(t, ImageDecodeFailed, res.Status)
		assert.ErrorIs(t, res.Err, ErrInvalidImage)
	})

	t.Run("prefix only", func(t *testing.T) {
		res := u.DecodeBase64Image("data:image/png;base64,")
		assert.Equal(t, ImageDecodeFailed, res.Status)
		assert.ErrorIs(t, res.Err, ErrEmptyImage)
	})
}

func TestImageDecodeStatusString(t *testing.T) {
	assert.Equal(t, "absent", ImageAbsent.String())
	assert.Equal(t, "decoded", ImageDecoded.String())
	assert.Equal(t, "failed", ImageDecodeFailed.String())
}

func TestPrepareForDetection(t *testing.T) {
	u := New()
	img := image.NewRGBA(image.Rect(0, 0, 1280, 640))

	out, err := u.PrepareForDetection(img, 320)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 320, decoded.Bounds().Dx())
	assert.Equal(t, 160, decoded.Bounds().Dy())

	out, err = u.PrepareForDetection(image.NewRGBA(image.Rect(0, 0, 100, 50)), 320)
	require.NoError(t, err)
	decoded, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())

	_, err = u.PrepareForDetection(nil, 320)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestNewULIDFromTimestamp(t *testing.T) {
	id, err := New().NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	assert.Len(t, id, 26)
}
