package posts

import (
	"context"

	"Aurora/internal/core/media"
)

// Service defines the post operations exposed to the UI layer.
// Reads go straight to the backend client; writes with media run the
// validate -> downscale -> encode -> upload pipeline first.
type Service interface {
	// List fetches all posts, normalized and ordered most recent first.
	// Reissued list requests supersede in-flight ones.
	List(ctx context.Context) ([]Post, error)

	// Get fetches a single post by id. Reissued detail requests supersede
	// in-flight ones.
	Get(ctx context.Context, id string) (Post, error)

	// Create publishes a new post, uploading its media first when present.
	Create(ctx context.Context, req CreateRequest) (Post, error)

	// Update rewrites a post's title, content, and optionally its media.
	// Success is signaled by the HTTP status alone.
	Update(ctx context.Context, req UpdateRequest) error

	// Delete removes a post by id.
	Delete(ctx context.Context, id string) error

	// UploadMedia runs the media pipeline for one file and returns the
	// stored blob URL. Create and Update call this for their File inputs;
	// it is exported for callers that manage media separately.
	UploadMedia(ctx context.Context, f media.File) (MediaUploadResult, error)
}
