// Package memory provides an in-process S3 backend.
//
// Backend implements transport.Transport by serving requests from maps held
// in memory, answering with the same status codes, headers and XML documents
// an S3 endpoint would. It backs the "memory" storage backend and the tests.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"storage-sample/core/transport"

	"github.com/lithammer/shortuuid/v4"
	"github.com/minio/minio-go/v7"
)

// maxListKeys is the largest page the backend returns.
const maxListKeys = 1000

var bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{0,62}$`)

type object struct {
	data            []byte
	contentType     string
	contentEncoding string
	userMetadata    http.Header
	etag            string
	modified        time.Time
}

type bucket struct {
	created time.Time
	region  string
	objects map[string]*object
}

// Backend is an in-memory S3 store. It is safe for concurrent use.
type Backend struct {
	mu      sync.RWMutex
	owner   transport.Owner
	now     func() time.Time
	buckets map[string]*bucket
	// foreign holds names taken by other accounts.
	foreign map[string]struct{}
}

// Option configures a Backend.
type Option func(*Backend)

// WithOwner sets the owner reported in bucket listings.
func WithOwner(id, displayName string) Option {
	return func(b *Backend) {
		b.owner = transport.Owner{ID: id, DisplayName: displayName}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// WithForeignBuckets marks names as owned by another account, so creating
// them fails with BucketAlreadyExists.
func WithForeignBuckets(names ...string) Option {
	return func(b *Backend) {
		for _, name := range names {
			b.foreign[name] = struct{}{}
		}
	}
}

// New creates an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		owner:   transport.Owner{ID: "memory", DisplayName: "memory"},
		now:     time.Now,
		buckets: make(map[string]*bucket),
		foreign: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Do serves one request.
func (b *Backend) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case req.Bucket == "":
		if req.Method == http.MethodGet {
			return b.listBuckets(), nil
		}
	case req.Key == "":
		switch req.Method {
		case http.MethodPut:
			return b.createBucket(req)
		case http.MethodGet:
			return b.listObjects(req), nil
		case http.MethodHead:
			return b.headBucket(req), nil
		case http.MethodDelete:
			return b.deleteBucket(req), nil
		}
	default:
		switch req.Method {
		case http.MethodPut:
			return b.putObject(req)
		case http.MethodGet, http.MethodHead:
			return b.getObject(req), nil
		case http.MethodDelete:
			return b.deleteObject(req), nil
		}
	}
	return b.fail(http.StatusMethodNotAllowed, "MethodNotAllowed", "The specified method is not allowed against this resource.", req), nil
}

func (b *Backend) listBuckets() *transport.Response {
	b.mu.RLock()
	result := transport.ListAllMyBucketsResult{Xmlns: transport.Namespace, Owner: b.owner}
	for name, bkt := range b.buckets {
		result.Buckets = append(result.Buckets, transport.BucketEntry{Name: name, CreationDate: bkt.created})
	}
	b.mu.RUnlock()

	sort.Slice(result.Buckets, func(i, j int) bool { return result.Buckets[i].Name < result.Buckets[j].Name })
	return b.xml(http.StatusOK, result)
}

func (b *Backend) createBucket(req *transport.Request) (*transport.Response, error) {
	if !validBucketName(req.Bucket) {
		return b.fail(http.StatusBadRequest, "InvalidBucketName", "The specified bucket is not valid.", req), nil
	}

	region := ""
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if len(bytes.TrimSpace(body)) > 0 {
			var cfg transport.CreateBucketConfiguration
			if err := xml.Unmarshal(body, &cfg); err != nil {
				return b.fail(http.StatusBadRequest, "MalformedXML", "The XML you provided was not well-formed.", req), nil
			}
			region = cfg.LocationConstraint
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, taken := b.foreign[req.Bucket]; taken {
		return b.fail(http.StatusConflict, "BucketAlreadyExists", "The requested bucket name is not available.", req), nil
	}
	if _, ok := b.buckets[req.Bucket]; ok {
		return b.fail(http.StatusConflict, "BucketAlreadyOwnedByYou", "Your previous request to create the named bucket succeeded and you already own it.", req), nil
	}
	b.buckets[strings.Clone(req.Bucket)] = &bucket{
		created: b.now().UTC().Truncate(time.Millisecond),
		region:  region,
		objects: make(map[string]*object),
	}

	resp := b.respond(http.StatusOK, nil)
	resp.Header.Set("Location", "/"+req.Bucket)
	return resp, nil
}

func (b *Backend) headBucket(req *transport.Request) *transport.Response {
	b.mu.RLock()
	bkt, ok := b.buckets[req.Bucket]
	b.mu.RUnlock()
	if !ok {
		return b.respond(http.StatusNotFound, nil)
	}
	resp := b.respond(http.StatusOK, nil)
	if bkt.region != "" {
		resp.Header.Set("X-Amz-Bucket-Region", bkt.region)
	}
	return resp
}

func (b *Backend) deleteBucket(req *transport.Request) *transport.Response {
	b.mu.Lock()
	defer b.mu.Unlock()

	bkt, ok := b.buckets[req.Bucket]
	if !ok {
		return b.fail(http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist", req)
	}
	if len(bkt.objects) > 0 {
		return b.fail(http.StatusConflict, "BucketNotEmpty", "The bucket you tried to delete is not empty", req)
	}
	delete(b.buckets, req.Bucket)
	return b.respond(http.StatusNoContent, nil)
}

func (b *Backend) putObject(req *transport.Request) (*transport.Response, error) {
	if req.ContentLength < 0 {
		return b.fail(http.StatusLengthRequired, "MissingContentLength", "You must provide the Content-Length HTTP header.", req), nil
	}

	var data []byte
	if req.Body != nil {
		var err error
		data, err = io.ReadAll(io.LimitReader(req.Body, req.ContentLength))
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}
	if int64(len(data)) != req.ContentLength {
		return b.fail(http.StatusBadRequest, "IncompleteBody", "You did not provide the number of bytes specified by the Content-Length HTTP header.", req), nil
	}

	sum := md5.Sum(data)
	obj := &object{
		data:            data,
		contentType:     strings.Clone(req.Header.Get("Content-Type")),
		contentEncoding: strings.Clone(req.Header.Get("Content-Encoding")),
		userMetadata:    http.Header{},
		etag:            `"` + hex.EncodeToString(sum[:]) + `"`,
	}
	if obj.contentType == "" {
		obj.contentType = "binary/octet-stream"
	}
	for name, values := range req.Header {
		if strings.HasPrefix(http.CanonicalHeaderKey(name), transport.HeaderMetaPrefix) && len(values) > 0 {
			obj.userMetadata.Set(name, strings.Clone(values[0]))
		}
	}

	b.mu.Lock()
	bkt, ok := b.buckets[req.Bucket]
	if !ok {
		b.mu.Unlock()
		return b.fail(http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist", req), nil
	}
	obj.modified = b.now().UTC().Truncate(time.Second)
	bkt.objects[strings.Clone(req.Key)] = obj
	b.mu.Unlock()

	resp := b.respond(http.StatusOK, nil)
	resp.Header.Set("ETag", obj.etag)
	return resp, nil
}

func (b *Backend) getObject(req *transport.Request) *transport.Response {
	b.mu.RLock()
	bkt, ok := b.buckets[req.Bucket]
	var obj *object
	if ok {
		obj = bkt.objects[req.Key]
	}
	b.mu.RUnlock()

	head := req.Method == http.MethodHead
	switch {
	case !ok:
		return b.failHead(head, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist", req)
	case obj == nil:
		return b.failHead(head, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.", req)
	}

	if status := checkConditions(req.Header, obj); status != 0 {
		if status == http.StatusNotModified {
			resp := b.respond(status, nil)
			resp.Header.Set("ETag", obj.etag)
			return resp
		}
		return b.failHead(head, status, "PreconditionFailed", "At least one of the pre-conditions you specified did not hold", req)
	}

	size := int64(len(obj.data))
	status := http.StatusOK
	start, end := int64(0), size-1
	if rangeHeader := req.Header.Get("Range"); rangeHeader != "" {
		s, e, ok := parseRange(rangeHeader, size)
		if !ok {
			resp := b.failHead(head, http.StatusRequestedRangeNotSatisfiable, "InvalidRange", "The requested range is not satisfiable", req)
			resp.Header.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
			return resp
		}
		start, end, status = s, e, http.StatusPartialContent
	}

	var body []byte
	if size > 0 {
		body = obj.data[start : end+1]
	}
	resp := b.respond(status, nil)
	if !head {
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	resp.Header.Set("Content-Type", obj.contentType)
	resp.Header.Set("ETag", obj.etag)
	resp.Header.Set("Last-Modified", obj.modified.Format(http.TimeFormat))
	resp.Header.Set("Accept-Ranges", "bytes")
	if obj.contentEncoding != "" {
		resp.Header.Set("Content-Encoding", obj.contentEncoding)
	}
	if status == http.StatusPartialContent {
		resp.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	}
	for name, values := range obj.userMetadata {
		resp.Header[name] = values
	}
	return resp
}

func (b *Backend) deleteObject(req *transport.Request) *transport.Response {
	b.mu.Lock()
	defer b.mu.Unlock()

	bkt, ok := b.buckets[req.Bucket]
	if !ok {
		return b.fail(http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist", req)
	}
	delete(bkt.objects, req.Key)
	return b.respond(http.StatusNoContent, nil)
}

func (b *Backend) listObjects(req *transport.Request) *transport.Response {
	prefix := req.Query.Get("prefix")
	marker := req.Query.Get("marker")
	maxKeys := maxListKeys
	if raw := req.Query.Get("max-keys"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return b.fail(http.StatusBadRequest, "InvalidArgument", "Provided max-keys not an integer or within integer range", req)
		}
		if n < maxKeys {
			maxKeys = n
		}
	}

	b.mu.RLock()
	bkt, ok := b.buckets[req.Bucket]
	if !ok {
		b.mu.RUnlock()
		return b.fail(http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist", req)
	}
	keys := make([]string, 0, len(bkt.objects))
	for key := range bkt.objects {
		if strings.HasPrefix(key, prefix) && key > marker {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	result := transport.ListBucketResult{
		Xmlns:   transport.Namespace,
		Name:    req.Bucket,
		Prefix:  prefix,
		Marker:  marker,
		MaxKeys: maxKeys,
	}
	if len(keys) > maxKeys {
		result.IsTruncated = true
		keys = keys[:maxKeys]
	}
	for _, key := range keys {
		obj := bkt.objects[key]
		result.Contents = append(result.Contents, transport.ObjectEntry{
			Key:          key,
			LastModified: obj.modified,
			ETag:         obj.etag,
			Size:         int64(len(obj.data)),
			StorageClass: "STANDARD",
		})
	}
	b.mu.RUnlock()

	return b.xml(http.StatusOK, result)
}

// checkConditions evaluates conditional request headers in the order S3
// applies them. It returns 0 when the object should be served.
func checkConditions(h http.Header, obj *object) int {
	modified := obj.modified.Truncate(time.Second)

	if match := h.Get("If-Match"); match != "" {
		if !etagMatches(match, obj.etag) {
			return http.StatusPreconditionFailed
		}
	} else if t, err := http.ParseTime(h.Get("If-Unmodified-Since")); err == nil && modified.After(t) {
		return http.StatusPreconditionFailed
	}

	if noneMatch := h.Get("If-None-Match"); noneMatch != "" {
		if etagMatches(noneMatch, obj.etag) {
			return http.StatusNotModified
		}
	} else if t, err := http.ParseTime(h.Get("If-Modified-Since")); err == nil && !modified.After(t) {
		return http.StatusNotModified
	}
	return 0
}

func etagMatches(list, etag string) bool {
	want := strings.Trim(etag, `"`)
	for _, candidate := range strings.Split(list, ",") {
		candidate = strings.Trim(strings.TrimSpace(candidate), `"`)
		if candidate == "*" || candidate == want {
			return true
		}
	}
	return false
}

// parseRange resolves a single "bytes=" range against size.
func parseRange(rangeHeader string, size int64) (int64, int64, bool) {
	rangeHeader, ok := strings.CutPrefix(rangeHeader, "bytes=")
	if !ok || strings.Contains(rangeHeader, ",") {
		return 0, 0, false
	}
	first, last, ok := strings.Cut(rangeHeader, "-")
	if !ok {
		return 0, 0, false
	}

	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 || size == 0 {
			return 0, 0, false
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, true
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, false
	}
	end := size - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil || end < start {
			return 0, 0, false
		}
		if end >= size {
			end = size - 1
		}
	}
	return start, end, true
}

func validBucketName(name string) bool {
	if !bucketNamePattern.MatchString(name) {
		return false
	}
	last := name[len(name)-1]
	if last == '.' || last == '-' {
		return false
	}
	return !strings.Contains(name, "..") && !strings.Contains(name, ".-") && !strings.Contains(name, "-.")
}

func (b *Backend) respond(status int, body []byte) *transport.Response {
	resp := &transport.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       http.NoBody,
	}
	resp.Header.Set(transport.HeaderRequestID, shortuuid.New())
	resp.Header.Set(transport.HeaderHostID, b.owner.ID)
	resp.Header.Set("Date", b.now().UTC().Format(http.TimeFormat))
	resp.Header.Set("Server", "memory")
	if body != nil {
		resp.Body = io.NopCloser(bytes.NewReader(body))
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return resp
}

func (b *Backend) xml(status int, v any) *transport.Response {
	body, err := xml.Marshal(v)
	if err != nil {
		return b.respond(http.StatusInternalServerError, nil)
	}
	resp := b.respond(status, append([]byte(xml.Header), body...))
	resp.Header.Set("Content-Type", "application/xml")
	return resp
}

func (b *Backend) fail(status int, code, message string, req *transport.Request) *transport.Response {
	resource := "/" + req.Bucket
	if req.Key != "" {
		resource += "/" + req.Key
	}
	resp := b.respond(status, nil)
	doc := minio.ErrorResponse{
		Code:       code,
		Message:    message,
		BucketName: req.Bucket,
		Key:        req.Key,
		Resource:   resource,
		RequestID:  resp.Header.Get(transport.HeaderRequestID),
		HostID:     b.owner.ID,
	}
	body, err := xml.Marshal(doc)
	if err != nil {
		return resp
	}
	body = append([]byte(xml.Header), body...)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.Header.Set("Content-Type", "application/xml")
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	return resp
}

// failHead answers errors to HEAD requests without a body, as S3 does.
func (b *Backend) failHead(head bool, status int, code, message string, req *transport.Request) *transport.Response {
	if head {
		return b.respond(status, nil)
	}
	return b.fail(status, code, message, req)
}
