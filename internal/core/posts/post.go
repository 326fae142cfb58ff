// Package posts implements the post domain: the canonical record type,
// normalization of heterogeneous backend response shapes, and the five
// operations (list, get, create, update, delete) composed from the media
// pipeline and the backend client.
package posts

import (
	"Aurora/internal/core/media"
)

// Post is the canonical domain record. All five fields are always present;
// normalization defaults anything the backend omitted to the empty string.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	MediaURL  string `json:"mediaUrl"`  // empty means "no media"
	CreatedAt string `json:"createdAt"` // backend-native timestamp string, used for ordering and display
}

// HasVideo reports whether the post's media URL points at a video.
func (p Post) HasVideo() bool {
	return media.IsVideoURL(p.MediaURL)
}

// MediaUploadResult is the outcome of a successful media upload. Callers
// attach BlobURL to a post's media field before create/update.
type MediaUploadResult struct {
	BlobURL string `json:"blobUrl"`
}

// CreateRequest is the input for creating a post. File is optional.
type CreateRequest struct {
	Title   string
	Content string
	File    *media.File
}

// UpdateRequest is the input for updating a post. File, when set, replaces
// the post's media.
type UpdateRequest struct {
	ID      string
	Title   string
	Content string
	File    *media.File
}
