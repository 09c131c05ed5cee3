package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	tu "github.com/desertthunder/reelx/internal/testing"
)

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	getErr  error
	removed int
}

func (f *fakeTokens) Get() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.getErr
}

func (f *fakeTokens) Remove() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed++
	f.token = ""
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenStore) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientOpts{BaseURL: server.URL, Tokens: tokens})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func requireAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	return apiErr
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := NewClient(ClientOpts{})
		if c.BaseURL() != DefaultBaseURL {
			t.Errorf("expected base URL %s, got %s", DefaultBaseURL, c.BaseURL())
		}
		if c.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", c.Timeout())
		}
		if c.limiter != nil {
			t.Error("expected no limiter by default")
		}
	})

	t.Run("custom client is not mutated", func(t *testing.T) {
		custom := &http.Client{Timeout: time.Minute}
		c := NewClient(ClientOpts{BaseURL: "http://example.com/", HTTPClient: custom, Timeout: time.Second, RateLimit: 5})

		if custom.Timeout != time.Minute {
			t.Errorf("expected caller's client to keep its timeout, got %v", custom.Timeout)
		}
		if c.Timeout() != time.Second {
			t.Errorf("expected 1s timeout, got %v", c.Timeout())
		}
		if c.BaseURL() != "http://example.com" {
			t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
		}
		if c.limiter == nil {
			t.Error("expected limiter to be configured")
		}
	})
}

func TestClientRequest(t *testing.T) {
	t.Run("attaches bearer token and headers", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("expected bearer header, got %q", got)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("expected JSON content type, got %q", got)
			}
			if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
				t.Errorf("expected user agent %s, got %q", DefaultUserAgent, got)
			}
			writeJSON(w, http.StatusOK, models.FavoriteStatus{IsFavorite: true})
		}, &fakeTokens{token: "tok-1"})

		status, err := client.CheckFavorite(context.Background(), 7)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !status.IsFavorite {
			t.Error("expected isFavorite to be decoded")
		}
	})

	t.Run("omits header without token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("expected no Authorization header, got %q", got)
			}
			writeJSON(w, http.StatusOK, models.MoviesPage{Page: 1})
		}, &fakeTokens{})

		if _, err := client.PopularMovies(context.Background(), 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("token read failure aborts before dispatch", func(t *testing.T) {
		hit := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			hit = true
		}, &fakeTokens{getErr: errors.New("storage corrupted")})

		_, err := client.MovieDetails(context.Background(), 1)
		apiErr := requireAPIError(t, err)

		if apiErr.Kind != KindUnknown || apiErr.Message != MessageUnknown || apiErr.StatusCode != 0 {
			t.Errorf("expected unknown error, got %+v", apiErr)
		}
		if hit {
			t.Error("expected no request to reach the server")
		}
	})

	t.Run("invalid 2xx body is unknown", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("<html>oops</html>"))
		}, nil)

		_, err := client.MovieDetails(context.Background(), 1)
		if apiErr := requireAPIError(t, err); apiErr.Kind != KindUnknown {
			t.Errorf("expected unknown kind, got %v", apiErr.Kind)
		}
	})
}

func TestClientResponseErrors(t *testing.T) {
	t.Run("401 evicts token", func(t *testing.T) {
		tokens := &fakeTokens{token: "expired"}
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized", "error": "TOKEN_EXPIRED"})
		}, tokens)

		_, err := client.FavoritesList(context.Background())
		apiErr := requireAPIError(t, err)

		if apiErr.Message != "Unauthorized" || apiErr.StatusCode != 401 || apiErr.Code != "TOKEN_EXPIRED" {
			t.Errorf("unexpected error %+v", apiErr)
		}
		if tokens.removed != 1 {
			t.Errorf("expected token removal, got %d removals", tokens.removed)
		}
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Error("expected error to match ErrUnauthorized")
		}
	})

	t.Run("other statuses keep the token", func(t *testing.T) {
		tc := []struct {
			name        string
			status      int
			body        any
			wantMessage string
			wantCode    string
		}{
			{name: "400", status: 400, body: map[string]string{"message": "Bad Request", "error": "VALIDATION_FAILED"}, wantMessage: "Bad Request", wantCode: "VALIDATION_FAILED"},
			{name: "409", status: 409, body: map[string]string{"message": "Movie already in favorites", "error": "CONFLICT"}, wantMessage: "Movie already in favorites", wantCode: "CONFLICT"},
			{name: "500 without message", status: 500, body: map[string]string{}, wantMessage: MessageResponseDefault},
			{name: "non-string message", status: 502, body: map[string]any{"message": 42, "error": true}, wantMessage: MessageResponseDefault},
			{name: "non-JSON body", status: 503, body: nil, wantMessage: MessageResponseDefault},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				tokens := &fakeTokens{token: "tok"}
				client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					if tt.body == nil {
						w.WriteHeader(tt.status)
						w.Write([]byte("Service Unavailable"))
						return
					}
					writeJSON(w, tt.status, tt.body)
				}, tokens)

				err := client.AddFavorite(context.Background(), 123)
				apiErr := requireAPIError(t, err)

				if apiErr.Kind != KindResponse || apiErr.StatusCode != tt.status {
					t.Errorf("expected response error with status %d, got %+v", tt.status, apiErr)
				}
				if apiErr.Message != tt.wantMessage {
					t.Errorf("expected message %q, got %q", tt.wantMessage, apiErr.Message)
				}
				if apiErr.Code != tt.wantCode {
					t.Errorf("expected code %q, got %q", tt.wantCode, apiErr.Code)
				}
				if tokens.removed != 0 {
					t.Error("expected token to be kept")
				}
			})
		}
	})

	t.Run("404 matches ErrMovieNotFound", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Movie not found"})
		}, nil)

		_, err := client.MovieDetails(context.Background(), 999)
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})
}

func TestClientTransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := NewClient(ClientOpts{BaseURL: url})
		_, err := client.PopularMovies(context.Background(), 1)
		apiErr := requireAPIError(t, err)

		if apiErr.Kind != KindTransport || apiErr.Message != MessageNetwork || apiErr.StatusCode != 0 {
			t.Errorf("expected network error, got %+v", apiErr)
		}
		if !errors.Is(err, shared.ErrNetwork) {
			t.Error("expected error to match ErrNetwork")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
		_, err := client.PopularMovies(context.Background(), 1)
		apiErr := requireAPIError(t, err)

		if apiErr.Kind != KindTransport || apiErr.Message != MessageNetwork || apiErr.StatusCode != 0 {
			t.Errorf("expected network error, got %+v", apiErr)
		}
	})

	t.Run("round tripper failure", func(t *testing.T) {
		client := NewClient(ClientOpts{
			BaseURL:    "http://movies.test",
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset by peer"))},
		})

		err := client.RemoveFavorite(context.Background(), 1)
		if apiErr := requireAPIError(t, err); apiErr.Kind != KindTransport {
			t.Errorf("expected transport kind, got %v", apiErr.Kind)
		}
	})

	t.Run("unreadable 2xx body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := NewClient(ClientOpts{
			BaseURL:    "http://movies.test",
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
		})

		_, err := client.CheckFavorite(context.Background(), 1)
		if apiErr := requireAPIError(t, err); apiErr.Kind != KindTransport {
			t.Errorf("expected transport kind, got %v", apiErr.Kind)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		if err := Normalize(true, &http.Response{StatusCode: 204}, nil, nil); err != nil {
			t.Errorf("expected nil, got %+v", err)
		}
	})

	t.Run("not dispatched", func(t *testing.T) {
		err := Normalize(false, nil, nil, nil)
		if err.Kind != KindUnknown || err.Message != MessageUnknown {
			t.Errorf("expected unknown error, got %+v", err)
		}
	})

	t.Run("response wins over decode error", func(t *testing.T) {
		err := Normalize(true, &http.Response{StatusCode: 418}, []byte(`{"message":"teapot"}`), errors.New("decode"))
		if err.Kind != KindResponse || err.Message != "teapot" || err.StatusCode != 418 {
			t.Errorf("expected response error, got %+v", err)
		}
	})

	t.Run("AsAPIError wraps foreign errors", func(t *testing.T) {
		if AsAPIError(nil) != nil {
			t.Error("expected nil for nil error")
		}
		if got := AsAPIError(errors.New("boom")); got.Kind != KindUnknown {
			t.Errorf("expected unknown kind, got %v", got.Kind)
		}
	})

	t.Run("Error string", func(t *testing.T) {
		err := &APIError{Kind: KindResponse, Message: "Conflict", StatusCode: 409}
		if err.Error() != "Conflict (status 409)" {
			t.Errorf("unexpected error string %q", err.Error())
		}
		if transportError(nil).Error() != MessageNetwork {
			t.Errorf("unexpected transport error string %q", transportError(nil).Error())
		}
	})
}
