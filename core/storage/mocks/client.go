package mocks

import (
	"context"

	"storage-sample/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) CreateBucket(ctx context.Context, name string) (storage.Bucket, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(storage.Bucket), args.Error(1)
}

func (m *Client) ListBuckets(ctx context.Context) ([]storage.Bucket, error) {
	args := m.Called(ctx)
	if buckets, ok := args.Get(0).([]storage.Bucket); ok {
		return buckets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, bucket, key string, content storage.Content, meta storage.ObjectMetadata) (storage.PutResult, error) {
	args := m.Called(ctx, bucket, key, content, meta)
	return args.Get(0).(storage.PutResult), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucket, key string, opts storage.GetOptions) (*storage.Object, error) {
	args := m.Called(ctx, bucket, key, opts)
	if obj, ok := args.Get(0).(*storage.Object); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, bucket string, opts storage.ListOptions) (storage.ObjectListing, error) {
	args := m.Called(ctx, bucket, opts)
	return args.Get(0).(storage.ObjectListing), args.Error(1)
}

func (m *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *Client) DeleteBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}
