// Package transport defines the request/response contract between the storage
// client and whatever actually moves bytes to an S3-compatible backend.
//
// The storage client never builds URLs, signs requests or manages connections.
// It describes each call as a Request (method, bucket, key, query, headers, body)
// and hands it to a Transport. A Transport returns the raw Response, or an error
// when the request never completed (DNS failure, connection reset, timeout,
// cancelled context).
//
// # Implementations
//
//   - s3http: real HTTP(S) transport with pooled connections, credential chain
//     and request signing.
//   - memory: in-process backend with S3 semantics, used for local runs and tests.
//
// # Wire documents
//
// The XML documents exchanged with the backend (bucket listings, object
// listings, bucket configuration) live here so both sides of the contract share
// one definition. Error documents use minio.ErrorResponse.
package transport
