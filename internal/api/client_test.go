package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := TokenFunc(func() (string, error) { return token, nil })
	c, err := New(Config{BaseURL: srv.URL + "/api/v1/"}, tokens, log.NewWriterLogger(io.Discard, log.LevelDebug))
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"}, nil, nil)
	assert.Error(t, err)
}

func TestBearerTokenAndRequestID(t *testing.T) {
	var auth, requestID, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		path = r.URL.Path
		w.Write([]byte(`{"id":1,"username":"admin"}`))
	}, "tok-123")

	var out struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, c.Get(context.Background(), "/users/me", &out))
	assert.Equal(t, "Bearer tok-123", auth)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, "/api/v1/users/me", path)
	assert.Equal(t, "admin", out.Username)
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var hasAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}, "")

	require.NoError(t, c.Get(context.Background(), "geo/zones", nil))
	assert.False(t, hasAuth)
}

func TestPostSendsJSON(t *testing.T) {
	var got map[string]any
	var contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"name":"North"}`))
	}, "t")

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, c.Post(context.Background(), "/geo/zones", map[string]any{"name": "North"}, &out))
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "North", got["name"])
	assert.Equal(t, int64(42), out.ID)
}

func TestPostForm(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"access_token":"abc"}`))
	}, "")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.PostForm(context.Background(), "/auth/login", url.Values{"username": {"admin"}, "password": {"pw"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "admin", form.Get("username"))
	assert.Equal(t, "abc", out.AccessToken)
}

func TestErrorDetailShapes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Zone already exists"}`, "Zone already exists"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"bad zone_id"}]}`, "field required; bad zone_id"},
		{"message field", http.StatusInternalServerError, `{"message":"database down"}`, "database down"},
		{"plain text", http.StatusBadGateway, "  upstream failed \n", "upstream failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "")

			err := c.Post(context.Background(), "/geo/zones", map[string]string{"name": "x"}, nil)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, tt.detail, Detail(err))
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}, "expired")

	err := c.Get(context.Background(), "/users/me", nil)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(errors.New("plain")))
}

func TestTimeoutIsDetected(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "")
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Get(ctx, "/geo/zones", nil)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, RequestsPerSecond: 1, Burst: 1}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, c.Get(context.Background(), "/a", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.Get(ctx, "/b", nil))
}

func TestPacingPastDeadlineIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, RequestsPerSecond: 1, Burst: 1}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/a", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = c.Get(ctx, "/b", nil)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	err = c.Get(cancelled, "/c", nil)
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
}

func TestLoggerRecordsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWriterLogger(&buf, log.LevelDebug)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL}, nil, logger)
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/geo/zones", nil))
	require.NoError(t, logger.Close())

	assert.Contains(t, buf.String(), `"path":"/geo/zones"`)
	assert.Contains(t, buf.String(), `"status":200`)
}
