// Package media implements the client-side media pipeline: metadata
// validation, best-effort image downscaling, and base64 transcoding of
// file payloads for JSON transport.
package media

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
)

// File is a candidate upload: declared metadata plus the raw payload.
// Size is carried separately from len(Data) so validation stays a pure
// predicate over metadata.
type File struct {
	Name string // original file name, used for video routing and upload naming
	Kind string // declared MIME type, e.g. "image/png"
	Size int64  // size in bytes
	Data []byte // raw content
}

// EncodedFile is the transport-safe form of a File payload.
type EncodedFile struct {
	ContentType string
	Base64      string
}

var reVideo = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)

// IsVideoURL reports whether a file name or URL points at a video,
// judged by suffix alone. Anything else is treated as an image for
// downscaling purposes.
func IsVideoURL(url string) bool {
	return reVideo.MatchString(url)
}

// FileFromPath reads a file from disk and fills in its declared MIME type
// from the extension, sniffing the content when the extension is unknown.
func FileFromPath(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	kind := mime.TypeByExtension(filepath.Ext(path))
	if kind == "" {
		kind = http.DetectContentType(data)
	}

	return File{
		Name: filepath.Base(path),
		Kind: kind,
		Size: int64(len(data)),
		Data: data,
	}, nil
}
