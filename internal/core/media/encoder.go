package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
)

// reDataURL splits a data URL into its content type and base64 payload.
// The payload group may be empty: zero-byte files encode to an empty body.
var reDataURL = regexp.MustCompile(`^data:(.+);base64,(.*)$`)

// Encode reads the full payload and produces its transport-safe form:
// a declared content type plus a base64 body, split out of the combined
// data URL representation. Read failures and malformed data URLs (for
// example a file with no declared type) surface as ErrEncodingFailed.
func Encode(kind string, r io.Reader) (EncodedFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return EncodedFile{}, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	dataURL := "data:" + kind + ";base64," + base64.StdEncoding.EncodeToString(data)
	m := reDataURL.FindStringSubmatch(dataURL)
	if m == nil {
		return EncodedFile{}, fmt.Errorf("%w: malformed data URL for type %q", ErrEncodingFailed, kind)
	}

	return EncodedFile{ContentType: m[1], Base64: m[2]}, nil
}
