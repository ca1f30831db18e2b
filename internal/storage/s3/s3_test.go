package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noSuchKey = `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeBucket is an in-memory S3 endpoint that understands path-style
// GetObject and PutObject.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeChunked(body)
		}
		f.objects[key] = body
		f.puts++
		return response(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return response(http.StatusNotFound, []byte(noSuchKey), http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return response(http.StatusOK, body, http.Header{
			"Content-Length": {strconv.Itoa(len(body))},
			"Content-Type":   {"application/json"},
		}), nil
	}
	return response(http.StatusNotImplemented, nil, http.Header{}), nil
}

func response(status int, body []byte, h http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: h}
}

// decodeChunked strips aws-chunked framing: <hex>[;ext]\r\n<data>\r\n ... 0\r\n.
func decodeChunked(b []byte) []byte {
	var out []byte
	for len(b) > 0 {
		line, rest, ok := bytes.Cut(b, []byte("\r\n"))
		if !ok {
			break
		}
		sizeHex, _, _ := strings.Cut(string(line), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil || n == 0 || int(n) > len(rest) {
			break
		}
		out = append(out, rest[:n]...)
		b = bytes.TrimPrefix(rest[n:], []byte("\r\n"))
	}
	return out
}

func newTestStore(t *testing.T) (*Store, *fakeBucket) {
	t.Helper()
	fb := &fakeBucket{objects: make(map[string][]byte)}
	s, err := New(context.Background(), Config{
		Bucket:          "gym-bucket",
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		Prefix:          "backups/",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fb},
	})
	require.NoError(t, err)
	return s, fb
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestLoadMissingObject(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.Load(context.Background(), "gym")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveAndLoad(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "gym", []byte(`{"members":[]}`)))
	require.NoError(t, s.Save(ctx, "gym", []byte(`{"members":[{"id":"a"}]}`)))

	got, err := s.Load(ctx, "gym")
	require.NoError(t, err)
	assert.JSONEq(t, `{"members":[{"id":"a"}]}`, string(got))
	assert.Equal(t, 2, fb.puts)
	assert.Contains(t, fb.objects, "backups/gym.json")
}

func TestKey(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, "backups/gym-management-storage.json", s.Key("gym-management-storage"))
}
