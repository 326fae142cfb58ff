package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"Aurora/internal/backend"
	"Aurora/internal/core/media"
)

// Default per-call bounds. Uploads carry base64-inflated payloads and the
// backend may be slow to store them, hence the much longer bound.
const (
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultUploadTimeout = 180 * time.Second
	DefaultReadRetries   = 1
)

// Endpoints are the deployment-specific URLs the service talks to.
// Get and Delete receive the post id as an appended query parameter.
type Endpoints struct {
	List   string
	Get    string
	Create string
	Update string
	Delete string
	Upload string
}

// Config carries the externally overridable knobs of the post service.
// Zero values fall back to the package defaults.
type Config struct {
	Endpoints Endpoints

	MaxFileMB   int
	MaxImagePX  int
	JPEGQuality int

	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	UploadTimeout time.Duration
	ReadRetries   int
}

type service struct {
	client  *backend.Client
	tracker *backend.SupersessionTracker

	validator  *media.Validator
	downscaler *media.Downscaler

	endpoints Endpoints

	readTimeout   time.Duration
	writeTimeout  time.Duration
	uploadTimeout time.Duration
	readRetries   int
}

// Ensure service implements Service interface.
var _ Service = (*service)(nil)

// NewService creates the post service from a backend client and config.
func NewService(client *backend.Client, cfg Config) Service {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}
	if cfg.ReadRetries < 0 {
		cfg.ReadRetries = DefaultReadRetries
	}

	return &service{
		client:        client,
		tracker:       backend.NewSupersessionTracker(),
		validator:     media.NewValidator(cfg.MaxFileMB),
		downscaler:    media.NewDownscaler(cfg.MaxImagePX, cfg.JPEGQuality),
		endpoints:     cfg.Endpoints,
		readTimeout:   cfg.ReadTimeout,
		writeTimeout:  cfg.WriteTimeout,
		uploadTimeout: cfg.UploadTimeout,
		readRetries:   cfg.ReadRetries,
	}
}

// List fetches and normalizes all posts. A list request issued while a
// prior one is still in flight cancels the prior one; a result landing
// after supersession is discarded and reported as cancelled.
func (s *service) List(ctx context.Context) ([]Post, error) {
	reqCtx, tok := s.tracker.Begin(ctx, backend.ClassList)
	defer s.tracker.Finish(tok)

	raw, err := s.client.JSON(reqCtx, http.MethodGet, s.endpoints.List, nil, backend.RequestOptions{
		Timeout: s.readTimeout,
		Retries: s.readRetries,
	})
	if err != nil {
		return nil, err
	}
	if !s.tracker.Current(tok) {
		return nil, superseded("list posts")
	}

	return NormalizeList(raw), nil
}

// Get fetches a single post, falling back to the requested id when the
// backend omits one.
func (s *service) Get(ctx context.Context, id string) (Post, error) {
	if id == "" {
		return Post{}, ErrMissingID
	}

	reqCtx, tok := s.tracker.Begin(ctx, backend.ClassDetail)
	defer s.tracker.Finish(tok)

	raw, err := s.client.JSON(reqCtx, http.MethodGet, withID(s.endpoints.Get, id), nil, backend.RequestOptions{
		Timeout: s.readTimeout,
		Retries: s.readRetries,
	})
	if err != nil {
		return Post{}, err
	}
	if !s.tracker.Current(tok) {
		return Post{}, superseded("get post")
	}

	return NormalizeOne(raw, id), nil
}

// Create publishes a post. A failure after a successful media upload
// leaves the uploaded blob orphaned; that is a known limitation of the
// backend contract, not recovered here.
func (s *service) Create(ctx context.Context, req CreateRequest) (Post, error) {
	body := map[string]any{
		"title":    req.Title,
		"content":  req.Content,
		"imageUrl": "",
	}

	if req.File != nil {
		up, err := s.UploadMedia(ctx, *req.File)
		if err != nil {
			return Post{}, err
		}
		body["imageUrl"] = up.BlobURL
	}

	raw, err := s.client.JSON(ctx, http.MethodPost, s.endpoints.Create, body, backend.RequestOptions{
		Timeout: s.writeTimeout,
	})
	if err != nil {
		return Post{}, err
	}

	return NormalizeOne(raw, ""), nil
}

// Update rewrites a post. The response body is not parsed; the HTTP status
// alone signals success.
func (s *service) Update(ctx context.Context, req UpdateRequest) error {
	if req.ID == "" {
		return ErrMissingID
	}

	body := map[string]any{
		"id":      req.ID,
		"title":   req.Title,
		"content": req.Content,
	}

	if req.File != nil {
		up, err := s.UploadMedia(ctx, *req.File)
		if err != nil {
			return err
		}
		body["imageUrl"] = up.BlobURL
	}

	return s.client.Send(ctx, http.MethodPut, s.endpoints.Update, body, backend.RequestOptions{
		Timeout: s.writeTimeout,
	})
}

// Delete removes a post by id. Status-only, like Update.
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	return s.client.Send(ctx, http.MethodDelete, withID(s.endpoints.Delete, id), nil, backend.RequestOptions{
		Timeout: s.writeTimeout,
	})
}

// UploadMedia validates the file, downscales images (videos pass through),
// encodes the payload, and posts it to the upload endpoint. Uploads are
// never retried to avoid duplicate media writes.
func (s *service) UploadMedia(ctx context.Context, f media.File) (MediaUploadResult, error) {
	if err := s.validator.Validate(f); err != nil {
		return MediaUploadResult{}, err
	}

	if !media.IsVideoURL(f.Name) {
		f = s.downscaler.Downscale(f)
	}

	enc, err := media.Encode(f.Kind, bytes.NewReader(f.Data))
	if err != nil {
		return MediaUploadResult{}, err
	}

	body := map[string]string{
		"fileName":    uploadFileName(time.Now(), f.Name),
		"contentType": enc.ContentType,
		"base64":      enc.Base64,
	}

	raw, err := s.client.JSON(ctx, http.MethodPost, s.endpoints.Upload, body, backend.RequestOptions{
		Timeout: s.uploadTimeout,
	})
	if err != nil {
		return MediaUploadResult{}, err
	}

	var result MediaUploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return MediaUploadResult{}, fmt.Errorf("unexpected upload response: %w", err)
	}

	slog.Info("[POSTS] media uploaded",
		"file", f.Name,
		"size_bytes", f.Size,
		"blob_url", result.BlobURL,
	)

	return result, nil
}

var reWhitespace = regexp.MustCompile(`\s+`)

// uploadFileName builds a collision-resistant stored name:
// unix millis, a dash, then the original name with whitespace collapsed
// to underscores.
func uploadFileName(now time.Time, name string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), reWhitespace.ReplaceAllString(name, "_"))
}

// withID appends the id query parameter, respecting endpoints that already
// carry a query string.
func withID(endpoint, id string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "id=" + url.QueryEscape(id)
}

// superseded builds the cancellation error surfaced when a result lands
// after a newer request of the same class has started.
func superseded(op string) error {
	return &backend.RequestError{
		Kind:   backend.KindCancelled,
		Op:     op,
		Detail: "superseded by a newer request",
	}
}
