package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Header names shared by transports and the storage client.
const (
	HeaderRequestID     = "X-Amz-Request-Id"
	HeaderHostID        = "X-Amz-Id-2"
	HeaderMetaPrefix    = "X-Amz-Meta-"
	HeaderContentSHA256 = "X-Amz-Content-Sha256"
)

// Transport performs one S3 REST call.
type Transport interface {
	// Do sends the request and returns the backend response. A non-nil error
	// means the request did not complete; any response that did arrive,
	// including 4xx/5xx, is returned with a nil error. The caller owns
	// Response.Body and must close it.
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request describes a single call against a bucket or object.
type Request struct {
	Method string
	// Bucket is empty for service-level calls (list buckets).
	Bucket string
	// Key is empty for bucket-level calls.
	Key    string
	Query  url.Values
	Header http.Header
	Body   io.Reader
	// ContentLength is the exact body length, 0 when Body is nil.
	ContentLength int64
}

// NewRequest creates a request with initialised query and header maps.
func NewRequest(method, bucket, key string) *Request {
	return &Request{
		Method: method,
		Bucket: bucket,
		Key:    key,
		Query:  url.Values{},
		Header: http.Header{},
	}
}

// Response is the raw backend answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Close releases the response body, if any.
func (r *Response) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// RequestID returns the backend-assigned request identifier.
func (r *Response) RequestID() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get(HeaderRequestID)
}
