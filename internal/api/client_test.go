package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/ui"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string, loading ui.Loading) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, StaticToken(token), loading, 5*time.Second, 0)
}

func TestCallUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"id": "b1", "title": "Số Đỏ"},
		})
	}, "", nil)

	var out struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	err := client.Get(context.Background(), "/books/b1", &out)
	require.NoError(t, err)
	assert.Equal(t, "b1", out.ID)
	assert.Equal(t, "Số Đỏ", out.Title)
}

func TestCallSuccessFalse(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "book out of stock",
				"data":    map[string]any{},
			})
		}, "", nil)

		err := client.Post(context.Background(), "/cart/add", nil, nil)
		var failed *RequestFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "book out of stock", failed.Message)
	})

	t.Run("without data", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "rejected",
			})
		}, "", nil)

		err := client.Post(context.Background(), "/cart/add", nil, nil)
		var failed *RequestFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "rejected", failed.Message)
	})
}

func TestCallHTTPError(t *testing.T) {
	t.Run("message from envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "book not found",
			})
		}, "", nil)

		err := client.Get(context.Background(), "/books/nope", nil)
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "book not found", httpErr.Message)
		assert.Equal(t, http.StatusNotFound, StatusOf(err))
	})

	t.Run("message from plain body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}, "", nil)

		err := client.Get(context.Background(), "/books", nil)
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "upstream down", httpErr.Message)
	})
}

func TestCallHeaders(t *testing.T) {
	t.Run("bearer token attached", func(t *testing.T) {
		var got http.Header
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.WriteHeader(http.StatusNoContent)
		}, "tok-123", nil)

		require.NoError(t, client.Get(context.Background(), "/cart", nil))
		assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
		assert.Equal(t, "application/json", got.Get("Content-Type"))
		assert.NotEmpty(t, got.Get("X-Request-ID"))
	})

	t.Run("no header without token", func(t *testing.T) {
		var got http.Header
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.WriteHeader(http.StatusNoContent)
		}, "", nil)

		require.NoError(t, client.Get(context.Background(), "/books", nil))
		assert.Empty(t, got.Get("Authorization"))
	})
}

func TestCallPlainTextResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}, "", nil)

	var out string
	require.NoError(t, client.Get(context.Background(), "/ping", &out))
	assert.Equal(t, "pong", out)
}

func TestCallNetworkError(t *testing.T) {
	client := New("http://127.0.0.1:1", StaticToken(""), nil, 500*time.Millisecond, 0)
	err := client.Get(context.Background(), "/books", nil)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 0, StatusOf(err))
}

func TestLoadingReleasedOnEveryPath(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"success", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}},
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"envelope failure", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"success": false})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spinner := ui.NewSpinner(testWriter{})
			client := newTestClient(t, tc.handler, "", spinner)
			_ = client.Get(context.Background(), "/x", nil)
			assert.False(t, spinner.Active())
		})
	}
}

func TestDeleteCarriesBody(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}, "", nil)

	err := client.Delete(context.Background(), "/cart/remove", map[string]string{"bookId": "b2"})
	require.NoError(t, err)
	assert.Equal(t, "b2", body["bookId"])
}

func TestDownload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("order,total\nORD-1,45000\n"))
	}, "tok", nil)

	data, err := client.Download(context.Background(), "/admin/orders/export")
	require.NoError(t, err)
	assert.Contains(t, string(data), "ORD-1")
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }
