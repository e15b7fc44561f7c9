package memory_test

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"storage-sample/core/transport"
	"storage-sample/core/transport/memory"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, b *memory.Backend, req *transport.Request) *transport.Response {
	t.Helper()
	resp, err := b.Do(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func put(t *testing.T, b *memory.Backend, bucket, key, body string) *transport.Response {
	t.Helper()
	req := transport.NewRequest(http.MethodPut, bucket, key)
	req.Body = strings.NewReader(body)
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "text/plain")
	return do(t, b, req)
}

func errorCode(t *testing.T, resp *transport.Response) string {
	t.Helper()
	defer resp.Close()
	var doc minio.ErrorResponse
	require.NoError(t, xml.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, resp.RequestID(), doc.RequestID)
	return doc.Code
}

func TestBackend_BucketLifecycle(t *testing.T) {
	b := memory.New(memory.WithForeignBuckets("taken"))

	resp := do(t, b, transport.NewRequest(http.MethodPut, "b1", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.RequestID())

	t.Run("OwnedAgain", func(t *testing.T) {
		resp := do(t, b, transport.NewRequest(http.MethodPut, "b1", ""))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "BucketAlreadyOwnedByYou", errorCode(t, resp))
	})

	t.Run("Foreign", func(t *testing.T) {
		resp := do(t, b, transport.NewRequest(http.MethodPut, "taken", ""))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "BucketAlreadyExists", errorCode(t, resp))
	})

	t.Run("InvalidName", func(t *testing.T) {
		resp := do(t, b, transport.NewRequest(http.MethodPut, "Bad_Name", ""))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "InvalidBucketName", errorCode(t, resp))
	})

	t.Run("List", func(t *testing.T) {
		resp := do(t, b, transport.NewRequest(http.MethodGet, "", ""))
		defer resp.Close()
		var result transport.ListAllMyBucketsResult
		require.NoError(t, xml.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result.Buckets, 1)
		assert.Equal(t, "b1", result.Buckets[0].Name)
	})

	t.Run("DeleteNotEmpty", func(t *testing.T) {
		put(t, b, "b1", "k", "v")
		resp := do(t, b, transport.NewRequest(http.MethodDelete, "b1", ""))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "BucketNotEmpty", errorCode(t, resp))
	})

	t.Run("DeleteEmpty", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, b, transport.NewRequest(http.MethodDelete, "b1", "k")).StatusCode)
		assert.Equal(t, http.StatusNoContent, do(t, b, transport.NewRequest(http.MethodDelete, "b1", "")).StatusCode)

		resp := do(t, b, transport.NewRequest(http.MethodDelete, "b1", ""))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NoSuchBucket", errorCode(t, resp))
	})
}

func TestBackend_Objects(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := memory.New(memory.WithClock(func() time.Time { return now }))
	do(t, b, transport.NewRequest(http.MethodPut, "b1", ""))

	resp := put(t, b, "b1", "k1", "hello world")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	assert.Equal(t, `"5eb63bbbe01eeed093cb22bb8f5acdc3"`, etag)

	t.Run("Get", func(t *testing.T) {
		resp := do(t, b, transport.NewRequest(http.MethodGet, "b1", "k1"))
		defer resp.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
		assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		assert.Equal(t, "11", resp.Header.Get("Content-Length"))
		assert.Equal(t, now.Format(http.TimeFormat), resp.Header.Get("Last-Modified"))
	})

	t.Run("MissingKey", func(t *testing.T) {
		resp := do(t, b, transport.NewRequest(http.MethodGet, "b1", "nope"))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NoSuchKey", errorCode(t, resp))
	})

	t.Run("MissingBucket", func(t *testing.T) {
		resp := put(t, b, "nope", "k1", "x")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NoSuchBucket", errorCode(t, resp))
	})

	t.Run("Range", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "k1")
		req.Header.Set("Range", "bytes=6-")
		resp := do(t, b, req)
		defer resp.Close()
		assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
		assert.Equal(t, "bytes 6-10/11", resp.Header.Get("Content-Range"))
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "world", string(data))
	})

	t.Run("RangeNotSatisfiable", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "k1")
		req.Header.Set("Range", "bytes=50-60")
		resp := do(t, b, req)
		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
		assert.Equal(t, "InvalidRange", errorCode(t, resp))
	})

	t.Run("IfMatchMismatch", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "k1")
		req.Header.Set("If-Match", `"other"`)
		resp := do(t, b, req)
		assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
		assert.Equal(t, "PreconditionFailed", errorCode(t, resp))
	})

	t.Run("IfNoneMatchHit", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "k1")
		req.Header.Set("If-None-Match", etag)
		assert.Equal(t, http.StatusNotModified, do(t, b, req).StatusCode)
	})

	t.Run("IfModifiedSinceFuture", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "k1")
		req.Header.Set("If-Modified-Since", now.Add(time.Hour).Format(http.TimeFormat))
		assert.Equal(t, http.StatusNotModified, do(t, b, req).StatusCode)
	})

	t.Run("IfUnmodifiedSincePast", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "k1")
		req.Header.Set("If-Unmodified-Since", now.Add(-time.Hour).Format(http.TimeFormat))
		assert.Equal(t, http.StatusPreconditionFailed, do(t, b, req).StatusCode)
	})

	t.Run("MissingLength", func(t *testing.T) {
		req := transport.NewRequest(http.MethodPut, "b1", "k2")
		req.Body = strings.NewReader("abc")
		req.ContentLength = -1
		resp := do(t, b, req)
		assert.Equal(t, http.StatusLengthRequired, resp.StatusCode)
		assert.Equal(t, "MissingContentLength", errorCode(t, resp))
	})

	t.Run("UserMetadata", func(t *testing.T) {
		req := transport.NewRequest(http.MethodPut, "b1", "k3")
		req.Body = strings.NewReader("x")
		req.ContentLength = 1
		req.Header.Set("X-Amz-Meta-Owner", "sample")
		require.Equal(t, http.StatusOK, do(t, b, req).StatusCode)

		resp := do(t, b, transport.NewRequest(http.MethodHead, "b1", "k3"))
		assert.Equal(t, "sample", resp.Header.Get("X-Amz-Meta-Owner"))
		assert.Equal(t, "binary/octet-stream", resp.Header.Get("Content-Type"))
	})

	t.Run("DeleteMissingKey", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, b, transport.NewRequest(http.MethodDelete, "b1", "nope")).StatusCode)
	})
}

func TestBackend_ListObjects(t *testing.T) {
	b := memory.New()
	do(t, b, transport.NewRequest(http.MethodPut, "b1", ""))
	for _, key := range []string{"c", "a", "b", "MyObjectKey", "d"} {
		put(t, b, "b1", key, key)
	}

	list := func(query map[string]string) transport.ListBucketResult {
		req := transport.NewRequest(http.MethodGet, "b1", "")
		for k, v := range query {
			req.Query.Set(k, v)
		}
		resp := do(t, b, req)
		defer resp.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result transport.ListBucketResult
		require.NoError(t, xml.NewDecoder(resp.Body).Decode(&result))
		return result
	}

	keys := func(r transport.ListBucketResult) []string {
		var out []string
		for _, c := range r.Contents {
			out = append(out, c.Key)
		}
		return out
	}

	t.Run("Sorted", func(t *testing.T) {
		r := list(nil)
		assert.Equal(t, []string{"MyObjectKey", "a", "b", "c", "d"}, keys(r))
		assert.False(t, r.IsTruncated)
	})

	t.Run("Prefix", func(t *testing.T) {
		assert.Equal(t, []string{"MyObjectKey"}, keys(list(map[string]string{"prefix": "My"})))
	})

	t.Run("Pages", func(t *testing.T) {
		r := list(map[string]string{"max-keys": "2", "marker": "a"})
		assert.Equal(t, []string{"b", "c"}, keys(r))
		assert.True(t, r.IsTruncated)
		assert.Empty(t, r.NextMarker)

		r = list(map[string]string{"max-keys": "2", "marker": "c"})
		assert.Equal(t, []string{"d"}, keys(r))
		assert.False(t, r.IsTruncated)
	})

	t.Run("BadMaxKeys", func(t *testing.T) {
		req := transport.NewRequest(http.MethodGet, "b1", "")
		req.Query.Set("max-keys", "x")
		resp := do(t, b, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "InvalidArgument", errorCode(t, resp))
	})
}

func TestBackend_CanceledContext(t *testing.T) {
	b := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Do(ctx, transport.NewRequest(http.MethodGet, "", ""))
	assert.ErrorIs(t, err, context.Canceled)
}
