package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_JSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p1","title":"hello"}`))
	}))
	defer srv.Close()

	c := NewClient(nil)
	raw, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{})
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "p1", got["id"])
}

func TestClient_EmptyBodyDecodesAsEmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(nil)
	raw, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestClient_HTTPErrorCarriesBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "post does not exist", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, KindHTTP, reqErr.Kind)
	assert.Equal(t, "post does not exist", reqErr.Detail)
}

func TestClient_HTTPErrorEmptyBodyFallsBackToStatusLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(nil)
	err := c.Send(context.Background(), http.MethodDelete, srv.URL, nil, RequestOptions{})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "502 Bad Gateway", reqErr.Detail)
}

func TestClient_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway page</html>"))
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, KindParse, reqErr.Kind)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{Timeout: 30 * time.Millisecond})
	require.Error(t, err)

	assert.True(t, IsTimeout(err))
	assert.False(t, IsCancelled(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestClient_RetryExhaustion(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{
		Timeout: 30 * time.Millisecond,
		Retries: 1,
	})

	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	// One original attempt plus exactly one retry.
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_RetryRecoversOnSecondAttempt(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(nil)
	raw, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil, RequestOptions{Retries: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_CancellationNotRetried(t *testing.T) {
	var attempts atomic.Int32
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		started <- struct{}{}
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewClient(nil)
	_, err := c.JSON(ctx, http.MethodGet, srv.URL, nil, RequestOptions{Retries: 3})

	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_SendIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A non-JSON ack body must not matter for Send.
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(nil)
	err := c.Send(context.Background(), http.MethodPut, srv.URL, map[string]string{"id": "p1"}, RequestOptions{})
	assert.NoError(t, err)
}

func TestClient_MarshalsRequestBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.JSON(context.Background(), http.MethodPost, srv.URL,
		map[string]string{"title": "t"}, RequestOptions{})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "t", gotBody["title"])
}
