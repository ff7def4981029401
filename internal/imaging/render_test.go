package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeRender(t *testing.T, r *RenderResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func rgbOf(img image.Image, x, y int) RGB {
	r, g, b, _ := img.At(x, y).RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func TestRenderMarked(t *testing.T) {
	marked := image.NewGray(image.Rect(0, 0, 40, 30))
	for y := 5; y < 10; y++ {
		for x := 20; x < 35; x++ {
			marked.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	overlays := []Overlay{{
		Center:  image.Pt(27, 7),
		From:    image.Pt(20, 7),
		To:      image.Pt(34, 7),
		HasLine: true,
	}}

	result, err := RenderMarked(marked, overlays, 1.0)
	if err != nil {
		t.Fatalf("RenderMarked failed: %v", err)
	}
	if result.Width != 40 || result.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", result.MimeType)
	}

	img := decodeRender(t, result)
	green := RGB{0, 255, 0}

	tests := []struct {
		name string
		x, y int
		want RGB
	}{
		{"background", 2, 2, RGB{0, 0, 0}},
		{"region pixel", 33, 9, RGB{255, 255, 255}},
		{"centroid", 27, 7, green},
		{"disc edge", 27, 9, green},
		{"outside disc", 27, 10, RGB{0, 0, 0}},
		{"segment start", 20, 7, green},
		{"segment end", 34, 7, green},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rgbOf(img, tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d): got %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderMarked_ClipsOverlaysAtEdges(t *testing.T) {
	marked := image.NewGray(image.Rect(0, 0, 10, 10))
	overlays := []Overlay{{
		Center:  image.Pt(0, 0),
		From:    image.Pt(-5, -5),
		To:      image.Pt(15, 15),
		HasLine: true,
	}}

	result, err := RenderMarked(marked, overlays, 1.0)
	if err != nil {
		t.Fatalf("RenderMarked failed: %v", err)
	}
	img := decodeRender(t, result)
	if got := rgbOf(img, 9, 9); got != (RGB{0, 255, 0}) {
		t.Errorf("diagonal pixel (9,9): got %+v, want green", got)
	}
}

func TestRenderMarked_Scale(t *testing.T) {
	marked := image.NewGray(image.Rect(0, 0, 20, 10))

	tests := []struct {
		scale         float64
		width, height int
	}{
		{1.0, 20, 10},
		{2.0, 40, 20},
		{0.5, 10, 5},
		{0, 20, 10},
	}

	for _, tt := range tests {
		result, err := RenderMarked(marked, nil, tt.scale)
		if err != nil {
			t.Fatalf("RenderMarked(scale=%v) failed: %v", tt.scale, err)
		}
		if result.Width != tt.width || result.Height != tt.height {
			t.Errorf("scale %v: got %dx%d, want %dx%d", tt.scale, result.Width, result.Height, tt.width, tt.height)
		}
	}
}

func TestRenderMarked_Errors(t *testing.T) {
	if _, err := RenderMarked(nil, nil, 1.0); err == nil {
		t.Error("RenderMarked should fail for a nil frame")
	}
	if _, err := RenderMarked(image.NewGray(image.Rect(0, 0, 0, 0)), nil, 1.0); err == nil {
		t.Error("RenderMarked should fail for an empty frame")
	}
	if _, err := RenderMarked(image.NewGray(image.Rect(0, 0, 4, 4)), nil, 0.1); err == nil {
		t.Error("RenderMarked should fail when the scale collapses the frame")
	}
}
