package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, color.RGBA{200, 120, 40, 255}), nil); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, color.RGBA{250, 220, 90, 255})); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeJPEG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(t, 120, 80)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("MIME = %s, want image/jpeg", photo.MIME)
	}
	if photo.Width != 120 || photo.Height != 80 {
		t.Errorf("size = %dx%d, want 120x80", photo.Width, photo.Height)
	}
}

func TestNormalizePNGBecomesJPEG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodePNG(t, 64, 64)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(photo.Data)); err != nil || format != "jpeg" {
		t.Errorf("decoded format = %q (err %v), want jpeg", format, err)
	}
}

func TestNormalizeShrinksKeepingAspect(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(t, 2048, 1024)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if photo.Width != MaxDimension || photo.Height != MaxDimension/2 {
		t.Errorf("size = %dx%d, want %dx%d", photo.Width, photo.Height, MaxDimension, MaxDimension/2)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"text", []byte("kaju katli"), ErrUnsupported},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), ErrUnsupported},
		{"too large", append(encodeJPEG(t, 8, 8), make([]byte, MaxBytes)...), ErrTooLarge},
		{"truncated png", encodePNG(t, 32, 32)[:40], ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

