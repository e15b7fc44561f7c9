package storage

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storage-sample/core/transport"

	"go.uber.org/zap"
)

// defaultRegion needs no location constraint on bucket creation.
const defaultRegion = "us-east-1"

// Client defines the object storage operations.
type Client interface {
	// CreateBucket creates a bucket owned by the caller. Creating a bucket
	// the caller already owns returns the existing bucket.
	CreateBucket(ctx context.Context, name string) (Bucket, error)
	// ListBuckets lists every bucket owned by the caller.
	ListBuckets(ctx context.Context) ([]Bucket, error)
	// PutObject stores content under key, replacing any existing object.
	PutObject(ctx context.Context, bucket, key string, content Content, meta ObjectMetadata) (PutResult, error)
	// GetObject opens an object for streaming. The caller must Close it.
	GetObject(ctx context.Context, bucket, key string, opts GetOptions) (*Object, error)
	// ListObjects returns one page of keys in lexicographic order.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) (ObjectListing, error)
	// DeleteObject removes an object. Deleting a missing key succeeds.
	DeleteObject(ctx context.Context, bucket, key string) error
	// DeleteBucket removes an empty bucket.
	DeleteBucket(ctx context.Context, bucket string) error
}

// Option configures a client.
type Option func(*client)

// WithRecorder sends an Event for every operation to r.
func WithRecorder(r Recorder) Option {
	return func(c *client) {
		c.recorder = r
	}
}

// WithRegion sets the region used as location constraint for new buckets.
func WithRegion(region string) Option {
	return func(c *client) {
		c.region = region
	}
}

type client struct {
	transport transport.Transport
	logger    *zap.Logger
	recorder  Recorder
	region    string
}

// NewClient creates a client over the given transport.
func NewClient(t transport.Transport, logger *zap.Logger, opts ...Option) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &client{transport: t, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) CreateBucket(ctx context.Context, name string) (b Bucket, err error) {
	start := time.Now()
	var requestID string
	defer func() { c.finish(ctx, OpCreateBucket, name, "", start, requestID, err) }()

	if err := c.checkBucket(OpCreateBucket, name); err != nil {
		return Bucket{}, err
	}

	req := transport.NewRequest(http.MethodPut, name, "")
	if c.region != "" && c.region != defaultRegion {
		body, err := xml.Marshal(transport.CreateBucketConfiguration{
			Xmlns:              transport.Namespace,
			LocationConstraint: c.region,
		})
		if err != nil {
			return Bucket{}, fmt.Errorf("failed to encode bucket configuration: %w", err)
		}
		req.Body = bytes.NewReader(body)
		req.ContentLength = int64(len(body))
		req.Header.Set("Content-Type", "application/xml")
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return Bucket{}, transportError(OpCreateBucket, name, "", err)
	}
	requestID = resp.RequestID()

	if resp.StatusCode != http.StatusOK {
		serr := decodeError(OpCreateBucket, name, "", resp)
		if serr.Code != "BucketAlreadyOwnedByYou" {
			return Bucket{}, serr
		}
		c.logger.Info("Bucket already owned, returning existing bucket", zap.String("bucket", name))
		return c.existingBucket(ctx, name)
	}
	_ = resp.Close()

	return Bucket{Name: name, CreationDate: responseTime(resp.Header)}, nil
}

// existingBucket looks up a bucket the caller already owns.
func (c *client) existingBucket(ctx context.Context, name string) (Bucket, error) {
	buckets, err := c.listBuckets(ctx)
	if err != nil {
		return Bucket{}, err
	}
	for _, b := range buckets {
		if b.Name == name {
			return b, nil
		}
	}
	return Bucket{Name: name}, nil
}

func (c *client) ListBuckets(ctx context.Context) (buckets []Bucket, err error) {
	start := time.Now()
	defer func() { c.finish(ctx, OpListBuckets, "", "", start, "", err) }()
	return c.listBuckets(ctx)
}

func (c *client) listBuckets(ctx context.Context) ([]Bucket, error) {
	resp, err := c.transport.Do(ctx, transport.NewRequest(http.MethodGet, "", ""))
	if err != nil {
		return nil, transportError(OpListBuckets, "", "", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(OpListBuckets, "", "", resp)
	}
	defer resp.Close()

	var result transport.ListAllMyBucketsResult
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, malformedResponse(OpListBuckets, "", "", resp, fmt.Errorf("failed to decode bucket list: %w", err))
	}

	buckets := make([]Bucket, 0, len(result.Buckets))
	for _, entry := range result.Buckets {
		buckets = append(buckets, Bucket{Name: entry.Name, CreationDate: entry.CreationDate.UTC()})
	}
	return buckets, nil
}

func (c *client) PutObject(ctx context.Context, bucket, key string, content Content, meta ObjectMetadata) (res PutResult, err error) {
	start := time.Now()
	var requestID string
	defer func() { c.finish(ctx, OpPutObject, bucket, key, start, requestID, err) }()

	if err := c.checkObject(OpPutObject, bucket, key); err != nil {
		return PutResult{}, err
	}

	src, err := content.open()
	if err != nil {
		if se, ok := err.(*Error); ok {
			se.Op, se.Bucket, se.Key = OpPutObject, bucket, key
			return PutResult{}, se
		}
		return PutResult{}, err
	}
	defer func() { _ = src.close() }()

	req := transport.NewRequest(http.MethodPut, bucket, key)
	req.Body = src.body
	req.ContentLength = src.size

	contentType := meta.ContentType
	if contentType == "" {
		contentType = src.contentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", strconv.FormatInt(src.size, 10))
	if meta.ContentEncoding != "" {
		req.Header.Set("Content-Encoding", meta.ContentEncoding)
	}
	for k, v := range meta.UserMetadata {
		req.Header.Set(transport.HeaderMetaPrefix+k, v)
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return PutResult{}, transportError(OpPutObject, bucket, key, err)
	}
	requestID = resp.RequestID()
	if resp.StatusCode != http.StatusOK {
		return PutResult{}, decodeError(OpPutObject, bucket, key, resp)
	}
	_ = resp.Close()

	return PutResult{
		ETag:      trimETag(resp.Header.Get("ETag")),
		VersionID: resp.Header.Get("X-Amz-Version-Id"),
	}, nil
}

func (c *client) GetObject(ctx context.Context, bucket, key string, opts GetOptions) (obj *Object, err error) {
	start := time.Now()
	var requestID string
	defer func() { c.finish(ctx, OpGetObject, bucket, key, start, requestID, err) }()

	if err := c.checkObject(OpGetObject, bucket, key); err != nil {
		return nil, err
	}

	req := transport.NewRequest(http.MethodGet, bucket, key)
	if opts.IfMatch != "" {
		req.Header.Set("If-Match", opts.IfMatch)
	}
	if opts.IfNoneMatch != "" {
		req.Header.Set("If-None-Match", opts.IfNoneMatch)
	}
	if !opts.IfModifiedSince.IsZero() {
		req.Header.Set("If-Modified-Since", opts.IfModifiedSince.UTC().Format(http.TimeFormat))
	}
	if !opts.IfUnmodifiedSince.IsZero() {
		req.Header.Set("If-Unmodified-Since", opts.IfUnmodifiedSince.UTC().Format(http.TimeFormat))
	}
	if opts.Range != nil {
		if !opts.Range.valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRange, opts.Range)
		}
		req.Header.Set("Range", opts.Range.String())
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, transportError(OpGetObject, bucket, key, err)
	}
	requestID = resp.RequestID()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, decodeError(OpGetObject, bucket, key, resp)
	}

	return &Object{
		Bucket:       bucket,
		Key:          key,
		Metadata:     metadataFromHeader(resp.Header),
		ContentRange: resp.Header.Get("Content-Range"),
		body:         resp.Body,
	}, nil
}

func (c *client) ListObjects(ctx context.Context, bucket string, opts ListOptions) (listing ObjectListing, err error) {
	start := time.Now()
	var requestID string
	defer func() { c.finish(ctx, OpListObjects, bucket, "", start, requestID, err) }()

	if err := c.checkBucket(OpListObjects, bucket); err != nil {
		return ObjectListing{}, err
	}

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	req := transport.NewRequest(http.MethodGet, bucket, "")
	if opts.Prefix != "" {
		req.Query.Set("prefix", opts.Prefix)
	}
	if opts.Marker != "" {
		req.Query.Set("marker", opts.Marker)
	}
	req.Query.Set("max-keys", strconv.Itoa(maxKeys))

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return ObjectListing{}, transportError(OpListObjects, bucket, "", err)
	}
	requestID = resp.RequestID()
	if resp.StatusCode != http.StatusOK {
		return ObjectListing{}, decodeError(OpListObjects, bucket, "", resp)
	}
	defer resp.Close()

	var result transport.ListBucketResult
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ObjectListing{}, malformedResponse(OpListObjects, bucket, "", resp, fmt.Errorf("failed to decode object list: %w", err))
	}

	listing = ObjectListing{
		Bucket:      bucket,
		Prefix:      opts.Prefix,
		Marker:      opts.Marker,
		MaxKeys:     maxKeys,
		IsTruncated: result.IsTruncated,
		NextMarker:  result.NextMarker,
		Objects:     make([]ObjectSummary, 0, len(result.Contents)),
	}
	for _, entry := range result.Contents {
		listing.Objects = append(listing.Objects, ObjectSummary{
			Key:          entry.Key,
			Size:         entry.Size,
			LastModified: entry.LastModified.UTC(),
			ETag:         trimETag(entry.ETag),
		})
	}
	// Version 1 listings only send NextMarker when a delimiter is used.
	if listing.IsTruncated && listing.NextMarker == "" && len(listing.Objects) > 0 {
		listing.NextMarker = listing.Objects[len(listing.Objects)-1].Key
	}
	return listing, nil
}

func (c *client) DeleteObject(ctx context.Context, bucket, key string) (err error) {
	start := time.Now()
	var requestID string
	defer func() { c.finish(ctx, OpDeleteObject, bucket, key, start, requestID, err) }()

	if err := c.checkObject(OpDeleteObject, bucket, key); err != nil {
		return err
	}

	resp, err := c.transport.Do(ctx, transport.NewRequest(http.MethodDelete, bucket, key))
	if err != nil {
		return transportError(OpDeleteObject, bucket, key, err)
	}
	requestID = resp.RequestID()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		serr := decodeError(OpDeleteObject, bucket, key, resp)
		if serr.Code == "NoSuchKey" {
			return nil
		}
		return serr
	}
	return resp.Close()
}

func (c *client) DeleteBucket(ctx context.Context, bucket string) (err error) {
	start := time.Now()
	var requestID string
	defer func() { c.finish(ctx, OpDeleteBucket, bucket, "", start, requestID, err) }()

	if err := c.checkBucket(OpDeleteBucket, bucket); err != nil {
		return err
	}

	resp, err := c.transport.Do(ctx, transport.NewRequest(http.MethodDelete, bucket, ""))
	if err != nil {
		return transportError(OpDeleteBucket, bucket, "", err)
	}
	requestID = resp.RequestID()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return decodeError(OpDeleteBucket, bucket, "", resp)
	}
	return resp.Close()
}
