package sample

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storage-sample/core/storage"
	"storage-sample/core/storage/mocks"
	"storage-sample/core/transport/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() Config {
	return Config{BucketPrefix: "my-first-bucket", Key: "MyObjectKey", ListPrefix: "My"}
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	client := storage.NewClient(memory.New(), zap.NewNop())
	var out bytes.Buffer

	svc := NewService(client, testConfig(), zap.NewNop(), &out)
	report, err := svc.Run(ctx, "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report.Bucket, "my-first-bucket-"))
	assert.Contains(t, report.Buckets, report.Bucket)
	assert.NotEmpty(t, report.ETag)
	assert.True(t, strings.HasPrefix(report.ContentType, "text/plain"))
	assert.Equal(t, sampleLines, report.Lines)
	require.Len(t, report.Listing, 1)
	assert.Equal(t, "MyObjectKey", report.Listing[0].Key)
	assert.Equal(t, int64(135), report.Listing[0].Size)
	assert.True(t, report.Cleaned)

	assert.Contains(t, out.String(), "Content-Type: text/plain")
	assert.Contains(t, out.String(), "    abcdefghijklmnopqrstuvwxyz\n")

	buckets, err := client.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestService_RunKeep(t *testing.T) {
	ctx := context.Background()
	client := storage.NewClient(memory.New(), zap.NewNop())
	cfg := testConfig()
	cfg.Keep = true

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\n"), 0o600))

	report, err := NewService(client, cfg, zap.NewNop(), &bytes.Buffer{}).Run(ctx, path)
	require.NoError(t, err)
	assert.False(t, report.Cleaned)
	assert.Equal(t, []string{"first", "second"}, report.Lines)

	listing, err := client.ListObjects(ctx, report.Bucket, storage.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"MyObjectKey"}, listing.Keys())
}

func TestService_UniqueBucketNames(t *testing.T) {
	svc := NewService(nil, testConfig(), zap.NewNop(), &bytes.Buffer{})
	a, b := svc.BucketName(), svc.BucketName()
	assert.NotEqual(t, a, b)
	assert.NoError(t, storage.ValidateBucketName(a))
}

func TestService_CreateBucketRejected(t *testing.T) {
	client := new(mocks.Client)
	rejected := &storage.Error{Kind: storage.KindNameConflict, StatusCode: 409, Code: "BucketAlreadyExists", Type: storage.ErrorTypeClient, RequestID: "r1"}
	client.On("CreateBucket", mock.Anything, mock.Anything).Return(storage.Bucket{}, rejected)

	_, err := NewService(client, testConfig(), zap.NewNop(), &bytes.Buffer{}).Run(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrNameConflict)
	client.AssertNotCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
}

func TestService_FailureCleansUp(t *testing.T) {
	client := new(mocks.Client)
	client.On("CreateBucket", mock.Anything, mock.Anything).Return(storage.Bucket{}, nil)
	client.On("ListBuckets", mock.Anything).Return(nil, &storage.Error{Kind: storage.KindTransport, Err: errors.New("connection reset")})
	client.On("ListObjects", mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectListing{}, nil)
	client.On("DeleteBucket", mock.Anything, mock.Anything).Return(nil)

	_, err := NewService(client, testConfig(), zap.NewNop(), &bytes.Buffer{}).Run(context.Background(), "")
	assert.True(t, storage.IsTransportError(err))
	client.AssertCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
}

func TestReportError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	l := zap.New(core)

	ReportError(l, &storage.Error{
		Kind: storage.KindNotFound, StatusCode: 404, Code: "NoSuchBucket",
		Type: storage.ErrorTypeClient, RequestID: "req-9", Message: "The specified bucket does not exist",
	})
	ReportError(l, &storage.Error{Kind: storage.KindTransport, Err: errors.New("dial tcp: refused")})
	ReportError(l, errors.New("disk full"))

	entries := logs.All()
	require.Len(t, entries, 3)

	fields := entries[0].ContextMap()
	assert.Equal(t, "Request reached the storage service but was rejected", entries[0].Message)
	assert.Equal(t, int64(404), fields["status"])
	assert.Equal(t, "NoSuchBucket", fields["code"])
	assert.Equal(t, "Client", fields["type"])
	assert.Equal(t, "req-9", fields["request_id"])

	assert.Equal(t, "Client could not communicate with the storage service", entries[1].Message)
	assert.Equal(t, "Walkthrough failed", entries[2].Message)
}
