package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Downscaler dimensions and quality defaults, matching what the backend
// storage is sized for.
const (
	DefaultMaxImagePX  = 1600
	DefaultJPEGQuality = 80
)

// Downscaler rescales oversized images before upload. Downscaling is a
// best-effort optimization, not a correctness requirement: any decode or
// encode failure passes the original file through unchanged.
type Downscaler struct {
	maxPX   int
	quality int
}

// NewDownscaler creates a Downscaler that caps the longest image side at
// maxPX pixels and re-encodes lossy formats at the given JPEG quality
// (1-100). Non-positive values fall back to the defaults.
func NewDownscaler(maxPX, quality int) *Downscaler {
	if maxPX <= 0 {
		maxPX = DefaultMaxImagePX
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Downscaler{maxPX: maxPX, quality: quality}
}

// Downscale returns the file with its bytes replaced by a rescaled
// rendition when the image exceeds the configured bound. Videos and
// non-image kinds are returned unchanged, as are images already within
// bounds (byte-identical, no re-encode). On any failure the original
// file is returned.
func (d *Downscaler) Downscale(f File) File {
	if !strings.HasPrefix(f.Kind, "image/") {
		return f
	}

	data, err := d.downscale(f)
	if err != nil {
		slog.Debug("[MEDIA] downscale skipped, passing original through",
			"file", f.Name,
			"error", err,
		)
		return f
	}

	f.Data = data
	f.Size = int64(len(data))
	return f
}

// downscale is the result-returning inner path: it either produces the
// rescaled bytes or reports why it could not. Downscale converts the
// error branch into a pass-through of the original file.
func (d *Downscaler) downscale(f File) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	maxSide := width
	if height > maxSide {
		maxSide = height
	}
	if maxSide <= d.maxPX {
		// Within bounds: keep the original bytes untouched.
		return f.Data, nil
	}

	// math.Round rounds half away from zero, so the same dimensions and
	// bound always produce the same target size.
	scale := float64(d.maxPX) / float64(maxSide)
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))

	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	if strings.Contains(f.Kind, "png") {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: d.quality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode %s: %w", f.Name, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("re-encoding %s produced no output", f.Name)
	}

	return buf.Bytes(), nil
}
