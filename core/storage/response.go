package storage

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storage-sample/core/transport"

	"github.com/minio/minio-go/v7"
)

// maxErrorBody bounds how much of an error document is read.
const maxErrorBody = 64 << 10

// CodeMalformedResponse marks a success response whose body could not be decoded.
const CodeMalformedResponse = "MalformedResponse"

// malformedResponse reports a success status with an undecodable body. The
// backend answered, so this is a service error and not a transport failure.
func malformedResponse(op, bucket, key string, resp *transport.Response, cause error) *Error {
	return &Error{
		Kind:       KindService,
		Op:         op,
		Bucket:     bucket,
		Key:        key,
		StatusCode: resp.StatusCode,
		Code:       CodeMalformedResponse,
		Type:       ErrorTypeService,
		RequestID:  resp.RequestID(),
		HostID:     resp.Header.Get(transport.HeaderHostID),
		Message:    cause.Error(),
		Err:        cause,
	}
}

// decodeError builds an *Error from a non-success response and closes it.
func decodeError(op, bucket, key string, resp *transport.Response) *Error {
	defer resp.Close()

	e := &Error{
		Op:         op,
		Bucket:     bucket,
		Key:        key,
		StatusCode: resp.StatusCode,
		Type:       ErrorTypeClient,
		RequestID:  resp.RequestID(),
		HostID:     resp.Header.Get(transport.HeaderHostID),
	}
	if resp.StatusCode >= 500 {
		e.Type = ErrorTypeService
	}

	if resp.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(bytes.TrimSpace(body)) > 0 {
			var doc minio.ErrorResponse
			if err := xml.Unmarshal(body, &doc); err == nil {
				e.Code = doc.Code
				e.Message = doc.Message
				if e.RequestID == "" {
					e.RequestID = doc.RequestID
				}
				if e.HostID == "" {
					e.HostID = doc.HostID
				}
			}
		}
	}

	if e.Code == "" {
		e.Code = codeFromStatus(resp.StatusCode)
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	e.Kind = classify(e.Code, resp.StatusCode)
	return e
}

// codeFromStatus names bodiless responses (HEAD, 304) the way S3 does.
func codeFromStatus(status int) string {
	switch status {
	case http.StatusNotModified:
		return "NotModified"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusPreconditionFailed:
		return "PreconditionFailed"
	case http.StatusLengthRequired:
		return "MissingContentLength"
	case http.StatusForbidden:
		return "AccessDenied"
	}
	return strings.ReplaceAll(http.StatusText(status), " ", "")
}

func classify(code string, status int) Kind {
	switch code {
	case "NoSuchBucket", "NoSuchKey", "NotFound":
		return KindNotFound
	case "BucketAlreadyExists":
		return KindNameConflict
	case "InvalidBucketName":
		return KindInvalidName
	case "BucketNotEmpty":
		return KindBucketNotEmpty
	case "PreconditionFailed", "NotModified":
		return KindPreconditionFailed
	case "MissingContentLength":
		return KindLengthRequired
	}

	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusNotModified, http.StatusPreconditionFailed:
		return KindPreconditionFailed
	case http.StatusLengthRequired:
		return KindLengthRequired
	}
	return KindService
}

// metadataFromHeader reads object metadata from response headers.
func metadataFromHeader(h http.Header) ObjectMetadata {
	meta := ObjectMetadata{
		ContentType:     h.Get("Content-Type"),
		ContentEncoding: h.Get("Content-Encoding"),
		ETag:            trimETag(h.Get("ETag")),
	}
	if n, err := strconv.ParseInt(h.Get("Content-Length"), 10, 64); err == nil {
		meta.ContentLength = n
	}
	if t, err := http.ParseTime(h.Get("Last-Modified")); err == nil {
		meta.LastModified = t.UTC()
	}
	for name, values := range h {
		canonical := http.CanonicalHeaderKey(name)
		if !strings.HasPrefix(canonical, transport.HeaderMetaPrefix) || len(values) == 0 {
			continue
		}
		if meta.UserMetadata == nil {
			meta.UserMetadata = make(map[string]string)
		}
		meta.UserMetadata[strings.ToLower(strings.TrimPrefix(canonical, transport.HeaderMetaPrefix))] = values[0]
	}
	return meta
}

func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}

func responseTime(h http.Header) time.Time {
	if t, err := http.ParseTime(h.Get("Date")); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}
