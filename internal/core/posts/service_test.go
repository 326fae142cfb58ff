package posts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Aurora/internal/backend"
	"Aurora/internal/core/media"
)

// newTestService points every endpoint at the given server.
func newTestService(srv *httptest.Server) Service {
	return NewService(backend.NewClient(nil), Config{
		Endpoints: Endpoints{
			List:   srv.URL + "/list",
			Get:    srv.URL + "/get?sig=abc",
			Create: srv.URL + "/create",
			Update: srv.URL + "/update",
			Delete: srv.URL + "/delete?sig=abc",
			Upload: srv.URL + "/upload",
		},
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		ReadRetries:  1,
	})
}

// smallPNG builds an in-bounds PNG upload candidate.
func smallPNG(t *testing.T) media.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 50, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return media.File{Name: "shot 1.png", Kind: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestService_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/list", r.URL.Path)
		_, _ = w.Write([]byte(`{"value":[
			{"_id":"b","title":"older","_ts":1600000000},
			{"_id":"a","title":"newer","_ts":1700000000}
		]}`))
	}))
	defer srv.Close()

	svc := newTestService(srv)
	got, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "newer", got[0].Title)
}

func TestService_ListRetriesReads(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := newTestService(srv)
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestService_GetAppendsIDAndFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The configured endpoint already carries a query string, so the id
		// must arrive as an additional parameter, url-encoded.
		require.Equal(t, "abc", r.URL.Query().Get("sig"))
		require.Equal(t, "post/42", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"title":"no id in response"}`))
	}))
	defer srv.Close()

	svc := newTestService(srv)
	got, err := svc.Get(context.Background(), "post/42")
	require.NoError(t, err)

	assert.Equal(t, "post/42", got.ID)
	assert.Equal(t, "no id in response", got.Title)
}

func TestService_GetRequiresID(t *testing.T) {
	svc := NewService(backend.NewClient(nil), Config{})
	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestService_CreateWithoutMedia(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"id":"new-post","title":"hello"}`))
	}))
	defer srv.Close()

	svc := newTestService(srv)
	got, err := svc.Create(context.Background(), CreateRequest{Title: "hello", Content: "body"})
	require.NoError(t, err)

	assert.Equal(t, "new-post", got.ID)
	assert.Equal(t, "hello", gotBody["title"])
	assert.Equal(t, "", gotBody["imageUrl"])
}

func TestService_CreateWithMedia(t *testing.T) {
	const blobURL = "https://blobs.example.com/media/123-shot_1.png"

	var uploadBody map[string]string
	var createBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&uploadBody))
			_ = json.NewEncoder(w).Encode(map[string]string{"blobUrl": blobURL})
		case "/create":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			_, _ = w.Write([]byte(`{"id":"created"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	svc := newTestService(srv)
	file := smallPNG(t)
	got, err := svc.Create(context.Background(), CreateRequest{Title: "with media", File: &file})
	require.NoError(t, err)
	assert.Equal(t, "created", got.ID)

	// Upload request: sanitized name, declared type, decodable payload.
	assert.Contains(t, uploadBody["fileName"], "-shot_1.png")
	assert.NotContains(t, uploadBody["fileName"], " ")
	assert.Equal(t, "image/png", uploadBody["contentType"])
	decoded, err := base64.StdEncoding.DecodeString(uploadBody["base64"])
	require.NoError(t, err)
	assert.Equal(t, file.Data, decoded)

	// Create body carries the blob URL the upload returned.
	assert.Equal(t, blobURL, createBody["imageUrl"])
}

func TestService_CreateRejectsInvalidFileBeforeNetwork(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	svc := newTestService(srv)
	file := media.File{Name: "huge.png", Kind: "image/png", Size: 51 * 1024 * 1024}
	_, err := svc.Create(context.Background(), CreateRequest{Title: "t", File: &file})

	assert.ErrorIs(t, err, media.ErrFileTooLarge)
	assert.Equal(t, int32(0), requests.Load())
}

func TestService_Update(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		// A non-JSON ack; Update must not try to parse it.
		_, _ = w.Write([]byte("saved"))
	}))
	defer srv.Close()

	svc := newTestService(srv)
	err := svc.Update(context.Background(), UpdateRequest{ID: "p1", Title: "edited", Content: "text"})
	require.NoError(t, err)

	assert.Equal(t, "p1", gotBody["id"])
	assert.Equal(t, "edited", gotBody["title"])
	// No file means no imageUrl key at all, preserving existing media.
	_, present := gotBody["imageUrl"]
	assert.False(t, present)
}

func TestService_UpdateRequiresID(t *testing.T) {
	svc := NewService(backend.NewClient(nil), Config{})
	err := svc.Update(context.Background(), UpdateRequest{Title: "t"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestService_Delete(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotID = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := newTestService(srv)
	require.NoError(t, svc.Delete(context.Background(), "p 9"))
	assert.Equal(t, "p 9", gotID)
}

func TestService_GetSupersession(t *testing.T) {
	firstStarted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "A" {
			close(firstStarted)
			// Hold the first request until it is cancelled by the second.
			<-r.Context().Done()
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "title": "post " + id})
	}))
	defer srv.Close()

	svc := newTestService(srv)

	type result struct {
		post Post
		err  error
	}
	first := make(chan result, 1)
	go func() {
		p, err := svc.Get(context.Background(), "A")
		first <- result{post: p, err: err}
	}()

	<-firstStarted
	got, err := svc.Get(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "B", got.ID)

	// The superseded request surfaces as cancellation, never as a result.
	res := <-first
	require.Error(t, res.err)
	assert.True(t, backend.IsCancelled(res.err))
}

func TestUploadFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "1700000000000-my_vacation_photo.png", uploadFileName(now, "my vacation\tphoto.png"))
}

func TestWithID(t *testing.T) {
	assert.Equal(t, "https://x/get?id=a", withID("https://x/get", "a"))
	assert.Equal(t, "https://x/get?sig=1&id=a%2Fb", withID("https://x/get?sig=1", "a/b"))
}
