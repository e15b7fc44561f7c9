// Package gateway exposes the storage client over a small REST API.
//
// Buckets live under /buckets/{bucket} and objects under
// /buckets/{bucket}/objects/{key}. Downloads are streamed straight from the
// backend and honor conditional headers and a single byte range. Errors map
// to HTTP by kind:
//
//	InvalidName         400
//	NameConflict        409
//	NotFound            404
//	PreconditionFailed  412
//	BucketNotEmpty      409
//	LengthRequired      411
//	Service             backend status
//	Transport           502
//
// When a journal is configured, /journal and /journal/summary report the
// recorded operations.
package gateway
