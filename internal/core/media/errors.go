package media

import "errors"

// Typed errors for media handling.
// These allow callers to use errors.Is() for reliable error detection
// instead of fragile string matching.
var (
	// ErrFileTooLarge indicates the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedType indicates the declared MIME type is neither image nor video.
	ErrUnsupportedType = errors.New("only image or video files are supported")

	// ErrEncodingFailed indicates the file could not be read or its encoded
	// form did not match the expected data URL pattern.
	ErrEncodingFailed = errors.New("failed to encode file as base64")

	// ErrDecodeFailed indicates the image bytes could not be decoded.
	// Downscale converts this to a pass-through of the original file;
	// it is surfaced only by the internal result-returning path.
	ErrDecodeFailed = errors.New("failed to decode image")
)
