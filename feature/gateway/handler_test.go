package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storage-sample/core/database"
	"storage-sample/core/journal"
	"storage-sample/core/storage"
	"storage-sample/core/storage/mocks"
	"storage-sample/core/transport/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, client storage.Client, j Journal) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, NewFeature(client, j, zap.NewNop()).Load(app))
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGateway_BucketLifecycle(t *testing.T) {
	app := setupTestApp(t, storage.NewClient(memory.New(), zap.NewNop()), nil)

	resp := do(t, app, http.MethodPut, "/buckets/b1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/buckets", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Buckets []storage.Bucket `json:"buckets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed.Buckets, 1)
	assert.Equal(t, "b1", listed.Buckets[0].Name)

	resp = do(t, app, http.MethodDelete, "/buckets/b1", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/buckets/b1", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(storage.KindNotFound), decodeError(t, resp).Kind)
}

func TestGateway_CreateBucketErrors(t *testing.T) {
	app := setupTestApp(t, storage.NewClient(memory.New(memory.WithForeignBuckets("taken")), zap.NewNop()), nil)

	resp := do(t, app, http.MethodPut, "/buckets/Bad_Name", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(storage.KindInvalidName), decodeError(t, resp).Kind)

	resp = do(t, app, http.MethodPut, "/buckets/taken", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "BucketAlreadyExists", body.Code)
	assert.NotEmpty(t, body.RequestID)
}

func TestGateway_ObjectRoundTrip(t *testing.T) {
	app := setupTestApp(t, storage.NewClient(memory.New(), zap.NewNop()), nil)
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/buckets/b1", nil, nil).StatusCode)

	resp := do(t, app, http.MethodPut, "/buckets/b1/objects/dir/k1.txt", strings.NewReader("hello"), map[string]string{
		"Content-Type": "text/plain",
		"X-Meta-Owner": "ops",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var put storage.PutResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&put))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", put.ETag)

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects/dir/k1.txt", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", readBody(t, resp))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, `"5d41402abc4b2a76b9719d911017c592"`, resp.Header.Get("ETag"))
	assert.Equal(t, "ops", resp.Header.Get("X-Meta-Owner"))
	assert.NotEmpty(t, resp.Header.Get("Last-Modified"))

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects/dir/k1.txt", nil, map[string]string{"Range": "bytes=1-3"})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "ell", readBody(t, resp))
	assert.Equal(t, "bytes 1-3/5", resp.Header.Get("Content-Range"))

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects/dir/k1.txt", nil, map[string]string{"If-Match": `"other"`})
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects?prefix=dir/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing storage.ObjectListing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(t, listing.Objects, 1)
	assert.Equal(t, "dir/k1.txt", listing.Objects[0].Key)
	assert.Equal(t, int64(5), listing.Objects[0].Size)

	for i := 0; i < 2; i++ {
		resp = do(t, app, http.MethodDelete, "/buckets/b1", nil, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, string(storage.KindBucketNotEmpty), decodeError(t, resp).Kind)
	}
	resp = do(t, app, http.MethodGet, "/buckets/b1/objects/dir/k1.txt", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "a refused bucket delete keeps its objects")
	assert.Equal(t, "hello", readBody(t, resp))
	resp = do(t, app, http.MethodGet, "/buckets", nil, nil)
	assert.Contains(t, readBody(t, resp), `"name":"b1"`)

	resp = do(t, app, http.MethodDelete, "/buckets/b1/objects/dir/k1.txt", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/buckets/b1/objects/dir/k1.txt", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects/dir/k1.txt", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateway_ListPagination(t *testing.T) {
	ctx := context.Background()
	client := storage.NewClient(memory.New(), zap.NewNop())
	_, err := client.CreateBucket(ctx, "b1")
	require.NoError(t, err)
	for _, key := range []string{"a", "b", "c"} {
		_, err := client.PutObject(ctx, "b1", key, storage.FromBytes([]byte(key)), storage.ObjectMetadata{})
		require.NoError(t, err)
	}
	app := setupTestApp(t, client, nil)

	resp := do(t, app, http.MethodGet, "/buckets/b1/objects?max-keys=2", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page storage.ObjectListing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, []string{"a", "b"}, page.Keys())
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "b", page.NextMarker)

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects?max-keys=2&marker="+page.NextMarker, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = storage.ObjectListing{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, []string{"c"}, page.Keys())
	assert.False(t, page.IsTruncated)
}

func TestGateway_ForceDeleteBucket(t *testing.T) {
	ctx := context.Background()
	client := storage.NewClient(memory.New(), zap.NewNop())
	_, err := client.CreateBucket(ctx, "b1")
	require.NoError(t, err)
	for _, key := range []string{"x/1", "x/2", "y"} {
		_, err := client.PutObject(ctx, "b1", key, storage.FromBytes([]byte("data")), storage.ObjectMetadata{})
		require.NoError(t, err)
	}
	app := setupTestApp(t, client, nil)

	resp := do(t, app, http.MethodDelete, "/buckets/b1?force=true", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	buckets, err := client.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestGateway_InvalidRequestHeaders(t *testing.T) {
	client := new(mocks.Client)
	app := setupTestApp(t, client, nil)

	for _, header := range []string{"items=0-1", "bytes=a-b", "bytes=-", "bytes=-0", "bytes=5-2"} {
		resp := do(t, app, http.MethodGet, "/buckets/b1/objects/k1", nil, map[string]string{"Range": header})
		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode, header)
	}

	resp := do(t, app, http.MethodGet, "/buckets/b1/objects/k1", nil, map[string]string{"If-Modified-Since": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_SuffixRange(t *testing.T) {
	ctx := context.Background()
	client := storage.NewClient(memory.New(), zap.NewNop())
	_, err := client.CreateBucket(ctx, "b1")
	require.NoError(t, err)
	_, err = client.PutObject(ctx, "b1", "k1", storage.FromBytes([]byte("hello world")), storage.ObjectMetadata{})
	require.NoError(t, err)
	app := setupTestApp(t, client, nil)

	resp := do(t, app, http.MethodGet, "/buckets/b1/objects/k1", nil, map[string]string{"Range": "bytes=-5"})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "world", readBody(t, resp))
	assert.Equal(t, "bytes 6-10/11", resp.Header.Get("Content-Range"))

	resp = do(t, app, http.MethodGet, "/buckets/b1/objects/k1", nil, map[string]string{"Range": "bytes=-50"})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "hello world", readBody(t, resp))
}

func TestGateway_ServiceAndTransportErrors(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListBuckets", mock.Anything).Return(nil, &storage.Error{
		Kind: storage.KindService, StatusCode: http.StatusServiceUnavailable, Code: "SlowDown",
		Type: storage.ErrorTypeService, RequestID: "req-1",
	}).Once()
	client.On("ListBuckets", mock.Anything).Return(nil, &storage.Error{
		Kind: storage.KindTransport, Op: storage.OpListBuckets, Err: errors.New("connection refused"),
	}).Once()
	client.On("ListBuckets", mock.Anything).Return(nil, errors.New("boom")).Once()
	app := setupTestApp(t, client, nil)

	resp := do(t, app, http.MethodGet, "/buckets", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "SlowDown", body.Code)
	assert.Equal(t, "req-1", body.RequestID)

	resp = do(t, app, http.MethodGet, "/buckets", nil, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, string(storage.KindTransport), decodeError(t, resp).Kind)

	resp = do(t, app, http.MethodGet, "/buckets", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	client.AssertExpectations(t)
}

func TestGateway_GetObjectStreamsMockedBody(t *testing.T) {
	client := new(mocks.Client)
	meta := storage.ObjectMetadata{ContentType: "application/json", ContentLength: 2, ETag: "e1"}
	obj := storage.NewObject("b1", "k1", meta, io.NopCloser(strings.NewReader("{}")))
	client.On("GetObject", mock.Anything, "b1", "k1", storage.GetOptions{Range: &storage.Range{Start: 0, End: -1}}).Return(obj, nil)
	app := setupTestApp(t, client, nil)

	resp := do(t, app, http.MethodGet, "/buckets/b1/objects/k1", nil, map[string]string{"Range": "bytes=0-"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "{}", readBody(t, resp))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	client.AssertExpectations(t)
}

func TestGateway_Journal(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	j := journal.New(db, journal.Config{Enabled: true}, zap.NewNop())
	require.NoError(t, j.Migrate())

	client := storage.NewClient(memory.New(), zap.NewNop(), storage.WithRecorder(j))
	app := setupTestApp(t, client, j)

	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/buckets/b1", nil, nil).StatusCode)
	require.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/buckets/b1/objects/nope", nil, nil).StatusCode)

	resp := do(t, app, http.MethodGet, "/journal", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []journal.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Len(t, entries, 2)

	resp = do(t, app, http.MethodGet, "/journal/summary", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []journal.OpSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	assert.Len(t, rows, 2)
}

func TestGateway_JournalRoutesRequireJournal(t *testing.T) {
	app := setupTestApp(t, new(mocks.Client), nil)
	resp := do(t, app, http.MethodGet, "/journal", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	cases := map[storage.Kind]int{
		storage.KindInvalidName:        http.StatusBadRequest,
		storage.KindNameConflict:       http.StatusConflict,
		storage.KindNotFound:           http.StatusNotFound,
		storage.KindPreconditionFailed: http.StatusPreconditionFailed,
		storage.KindBucketNotEmpty:     http.StatusConflict,
		storage.KindLengthRequired:     http.StatusLengthRequired,
		storage.KindTransport:          http.StatusBadGateway,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(&storage.Error{Kind: kind}), string(kind))
	}
	assert.Equal(t, http.StatusInternalServerError, StatusFor(&storage.Error{Kind: storage.KindService, StatusCode: 500}))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&storage.Error{Kind: storage.KindService}))
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, StatusFor(storage.ErrInvalidRange))
}

func TestLoader(t *testing.T) {
	feature := NewFeature(new(mocks.Client), nil, zap.NewNop())
	assert.Equal(t, "gateway", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
