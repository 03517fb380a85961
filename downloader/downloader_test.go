package downloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGet(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		case "/bom":
			w.Write([]byte("\xef\xbb\xbf{\"a\":1}"))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 100)))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		case "/broken":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()

	body, err := HTTPGet(ctx, server.URL+"/ok", map[string]string{"User-Agent": "test-agent"}, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "test-agent", gotHeaders.Get("User-Agent"))

	body, err = NewHTTP().Get(ctx, server.URL+"/bom", nil, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))

	body, err = HTTPGet(ctx, server.URL+"/big", nil, GetOptions{MaxSize: 10})
	require.NoError(t, err)
	assert.Len(t, body, 10)

	_, err = HTTPGet(ctx, server.URL+"/slow", nil, GetOptions{Timeout: 20 * time.Millisecond})
	assert.Error(t, err)

	_, err = HTTPGet(ctx, server.URL+"/missing", nil, GetOptions{})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, "HTTP 404: Not Found", err.Error())

	_, err = HTTPGet(ctx, server.URL+"/broken", nil, GetOptions{})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.False(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, "HTTP 503: Service Unavailable", err.Error())
}

func TestHTTPGetUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := HTTPGet(context.Background(), url, nil, GetOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "making request")

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
