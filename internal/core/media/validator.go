package media

import (
	"fmt"
	"strings"
)

// DefaultMaxFileMB is the upload size limit used when none is configured.
// Serverless upload endpoints commonly reject larger request bodies.
const DefaultMaxFileMB = 50

// Validator rejects files that are too large or of a disallowed kind
// before any network or compute work happens.
type Validator struct {
	maxFileMB int
}

// NewValidator creates a Validator with the given size limit in megabytes.
// A non-positive limit falls back to DefaultMaxFileMB.
func NewValidator(maxFileMB int) *Validator {
	if maxFileMB <= 0 {
		maxFileMB = DefaultMaxFileMB
	}
	return &Validator{maxFileMB: maxFileMB}
}

// Validate checks the file's metadata against the size and kind rules.
// It never reads file contents. Returns:
//   - ErrFileTooLarge when size exceeds the configured limit
//   - ErrUnsupportedType when the declared type is neither image/* nor video/*
func (v *Validator) Validate(f File) error {
	sizeMB := float64(f.Size) / (1024 * 1024)
	if sizeMB > float64(v.maxFileMB) {
		return fmt.Errorf("%w: %.1fMB exceeds the %dMB limit", ErrFileTooLarge, sizeMB, v.maxFileMB)
	}

	if !strings.HasPrefix(f.Kind, "image/") && !strings.HasPrefix(f.Kind, "video/") {
		return fmt.Errorf("%w: got %q", ErrUnsupportedType, f.Kind)
	}

	return nil
}
