package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxKeys is the page size used when ListOptions.MaxKeys is not set.
const DefaultMaxKeys = 1000

// Bucket is a named container of objects.
type Bucket struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creation_date"`
}

// ObjectMetadata describes an object. On upload only ContentType,
// ContentEncoding and UserMetadata are sent; the rest is filled on download.
type ObjectMetadata struct {
	ContentType     string            `json:"content_type,omitempty"`
	ContentEncoding string            `json:"content_encoding,omitempty"`
	ContentLength   int64             `json:"content_length"`
	LastModified    time.Time         `json:"last_modified"`
	ETag            string            `json:"etag,omitempty"`
	UserMetadata    map[string]string `json:"user_metadata,omitempty"`
}

// ObjectSummary is one entry of an object listing. It never holds content.
type ObjectSummary struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// ObjectListing is one page of a listing.
type ObjectListing struct {
	Bucket  string          `json:"bucket"`
	Prefix  string          `json:"prefix"`
	Marker  string          `json:"marker"`
	MaxKeys int             `json:"max_keys"`
	Objects []ObjectSummary `json:"objects"`
	// IsTruncated is set when more keys match; pass NextMarker back as
	// ListOptions.Marker to continue.
	IsTruncated bool   `json:"is_truncated"`
	NextMarker  string `json:"next_marker,omitempty"`
}

// Keys returns the object keys of the page in order.
func (l ObjectListing) Keys() []string {
	keys := make([]string, 0, len(l.Objects))
	for _, o := range l.Objects {
		keys = append(keys, o.Key)
	}
	return keys
}

// ListOptions selects a page of objects.
type ListOptions struct {
	Prefix string
	// Marker returns keys strictly after it.
	Marker string
	// MaxKeys bounds the page size; zero means DefaultMaxKeys.
	MaxKeys int
}

// Range is an inclusive byte range. End < 0 means "to the end of the object".
// A non-zero Last requests the final Last bytes instead; Start and End are
// then ignored.
type Range struct {
	Start int64
	End   int64
	Last  int64
}

func (r Range) valid() bool {
	if r.Last != 0 {
		return r.Last > 0
	}
	if r.Start < 0 {
		return false
	}
	return r.End < 0 || r.End >= r.Start
}

// String renders the HTTP Range header value.
func (r Range) String() string {
	if r.Last != 0 {
		return fmt.Sprintf("bytes=-%d", r.Last)
	}
	if r.End < 0 {
		return fmt.Sprintf("bytes=%d-", r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

// GetOptions controls conditional and partial retrieval.
type GetOptions struct {
	IfMatch           string
	IfNoneMatch       string
	IfModifiedSince   time.Time
	IfUnmodifiedSince time.Time
	Range             *Range
}

// PutResult is returned by a successful upload.
type PutResult struct {
	ETag      string `json:"etag"`
	VersionID string `json:"version_id,omitempty"`
}

// Object is a downloaded object. Its Body is a live stream owned by the caller;
// the connection behind it stays open until it is read to the end or closed.
// An Object must be read by a single goroutine.
type Object struct {
	Bucket   string
	Key      string
	Metadata ObjectMetadata
	// ContentRange is set for partial responses.
	ContentRange string

	body      io.ReadCloser
	closeOnce sync.Once
	closeErr  error
}

// NewObject wraps an open content stream. Transports and tests use it; the
// client builds objects itself.
func NewObject(bucket, key string, meta ObjectMetadata, body io.ReadCloser) *Object {
	return &Object{Bucket: bucket, Key: key, Metadata: meta, body: body}
}

// Read reads from the content stream.
func (o *Object) Read(p []byte) (int, error) {
	return o.body.Read(p)
}

// Close releases the content stream. It is safe to call more than once.
func (o *Object) Close() error {
	o.closeOnce.Do(func() {
		o.closeErr = o.body.Close()
	})
	return o.closeErr
}

// Content is an upload source: a file path or a stream of known length.
type Content struct {
	path   string
	reader io.Reader
	size   int64
}

// FromFile uploads the file at path. Its length comes from the file system.
func FromFile(path string) Content {
	return Content{path: path, size: -1}
}

// FromReader uploads size bytes from r. A negative size marks the length as
// unknown, which PutObject rejects with LengthRequired.
func FromReader(r io.Reader, size int64) Content {
	return Content{reader: r, size: size}
}

// FromBytes uploads b.
func FromBytes(b []byte) Content {
	return Content{reader: bytes.NewReader(b), size: int64(len(b))}
}

// source is an opened Content.
type source struct {
	body        io.Reader
	size        int64
	contentType string
	close       func() error
}

func (c Content) open() (*source, error) {
	if c.path != "" {
		f, err := os.Open(c.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open upload file: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to stat upload file: %w", err)
		}
		contentType := ""
		if mt, err := mimetype.DetectFile(c.path); err == nil {
			contentType = mt.String()
		}
		return &source{body: f, size: info.Size(), contentType: contentType, close: f.Close}, nil
	}

	if c.size < 0 {
		return nil, &Error{Kind: KindLengthRequired, Message: "upload stream has no known length"}
	}
	body := c.reader
	if body == nil {
		if c.size > 0 {
			return nil, &Error{Kind: KindLengthRequired, Message: "upload stream is missing"}
		}
		body = bytes.NewReader(nil)
	}
	return &source{body: io.LimitReader(body, c.size), size: c.size, close: func() error { return nil }}, nil
}
