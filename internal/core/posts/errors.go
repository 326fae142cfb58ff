package posts

import "errors"

// Sentinel errors for post operations. Media and request failures surface
// from their own packages (media.ErrFileTooLarge, backend.RequestError);
// these cover only what the facade itself rejects.
var (
	// ErrMissingID is returned when get, update, or delete is called
	// without a post id.
	ErrMissingID = errors.New("post id is required")
)
