// Package gallery holds the UI-facing state of the client: the cached post
// list, the open detail record, and the operations the presentation layer
// dispatches. State lives on an explicit controller handed to the UI, not
// in package globals, and every outcome is reported through a Notifier
// rather than by touching presentation state directly.
package gallery

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"Aurora/internal/backend"
	"Aurora/internal/core/media"
	"Aurora/internal/core/posts"
)

// ErrTitleRequired is returned when publishing a post without a title.
var ErrTitleRequired = errors.New("a title is required")

// Notifier receives user-visible outcome messages, the toast analog.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Controller owns the gallery's client-side state and drives the post
// service. Rapidly re-triggered refresh/detail fetches supersede each
// other inside the service; the controller keeps the resulting
// cancellations silent.
type Controller struct {
	svc    posts.Service
	notify Notifier

	mu         sync.Mutex
	list       []posts.Post
	loading    bool
	detail     posts.Post
	detailOpen bool
}

// NewController creates a Controller. A nil notifier discards messages.
func NewController(svc posts.Service, notify Notifier) *Controller {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Controller{svc: svc, notify: notify}
}

// Posts returns a copy of the cached list.
func (c *Controller) Posts() []posts.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]posts.Post, len(c.list))
	copy(out, c.list)
	return out
}

// Loading reports whether a refresh is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Detail returns the open detail post, if any.
func (c *Controller) Detail() (posts.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail, c.detailOpen
}

// Refresh reloads the post list. A refresh superseded by a newer one
// returns nil without touching state or notifying; real failures are
// notified and returned.
func (c *Controller) Refresh(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	list, err := c.svc.List(ctx)
	if err != nil {
		if backend.IsCancelled(err) {
			return nil
		}
		c.notify.Error(err.Error())
		return err
	}

	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	return nil
}

// OpenDetail shows the post with the given id, serving it from the cached
// list immediately when present, then fetching the full record. A failed
// or superseded background fetch keeps whatever is already shown.
func (c *Controller) OpenDetail(ctx context.Context, id string) error {
	c.mu.Lock()
	for _, p := range c.list {
		if p.ID == id {
			c.detail = p
			c.detailOpen = true
			break
		}
	}
	c.mu.Unlock()

	full, err := c.svc.Get(ctx, id)
	if err != nil {
		if backend.IsCancelled(err) {
			return nil
		}
		if _, open := c.Detail(); open {
			// The cached copy is already on screen; log and keep it.
			slog.Debug("[GALLERY] detail fetch failed, keeping cached copy",
				"id", id,
				"error", err,
			)
			return nil
		}
		c.notify.Error(err.Error())
		return err
	}

	c.mu.Lock()
	c.detail = full
	c.detailOpen = true
	c.mu.Unlock()
	return nil
}

// CloseDetail dismisses the detail view.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detail = posts.Post{}
	c.detailOpen = false
}

// Publish creates a new post with an optional media file and refreshes the
// list on success.
func (c *Controller) Publish(ctx context.Context, title, content string, file *media.File) error {
	if title == "" {
		return ErrTitleRequired
	}

	_, err := c.svc.Create(ctx, posts.CreateRequest{Title: title, Content: content, File: file})
	if err != nil {
		c.notify.Error("Failed to publish: " + err.Error())
		return err
	}

	c.notify.Success("Note published successfully")
	return c.Refresh(ctx)
}

// SaveDetail updates the open detail post, optionally replacing its media.
func (c *Controller) SaveDetail(ctx context.Context, title, content string, file *media.File) error {
	c.mu.Lock()
	if !c.detailOpen {
		c.mu.Unlock()
		return posts.ErrMissingID
	}
	id := c.detail.ID
	c.mu.Unlock()

	err := c.svc.Update(ctx, posts.UpdateRequest{ID: id, Title: title, Content: content, File: file})
	if err != nil {
		c.notify.Error("Save failed: " + err.Error())
		return err
	}

	c.mu.Lock()
	c.detail.Title = title
	c.detail.Content = content
	c.mu.Unlock()

	c.notify.Success("Changes saved")
	return c.Refresh(ctx)
}

// DeleteDetail removes the open detail post and closes the view.
func (c *Controller) DeleteDetail(ctx context.Context) error {
	c.mu.Lock()
	if !c.detailOpen {
		c.mu.Unlock()
		return posts.ErrMissingID
	}
	id := c.detail.ID
	c.mu.Unlock()

	if err := c.svc.Delete(ctx, id); err != nil {
		c.notify.Error("Delete failed: " + err.Error())
		return err
	}

	c.CloseDetail()
	c.notify.Success("Note deleted")
	return c.Refresh(ctx)
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// FormatDate renders a createdAt value for display, e.g.
// "Jun 1, 2023 · 12:30 PM". Empty or unparseable values render empty.
func FormatDate(createdAt string) string {
	if createdAt == "" {
		return ""
	}
	t := posts.CreatedAtTime(createdAt)
	if t.Unix() == 0 {
		return ""
	}
	return t.Format("Jan 2, 2006 · 3:04 PM")
}
