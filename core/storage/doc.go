// Package storage is a client for S3-compatible object storage.
//
// It covers the bucket and object lifecycle: create and list buckets, upload,
// download and list objects, and delete both. Requests go through a
// transport.Transport, so the same client talks to a remote endpoint
// (core/transport/s3http) or to an in-process store (core/transport/memory).
//
// # Errors
//
// Every failure is an *Error with a Kind:
//
//   - InvalidName: a name broke the naming rules, locally or at the backend.
//   - NameConflict: the bucket name belongs to someone else.
//   - NotFound: the bucket or object does not exist.
//   - PreconditionFailed: conditional retrieval criteria were not met.
//   - BucketNotEmpty: the bucket still holds objects.
//   - LengthRequired: the upload length could not be determined.
//   - Service: any other rejection by the backend.
//   - Transport: the request never completed.
//
// Service errors carry StatusCode, Code, Type and RequestID. Use errors.Is
// with the Err* sentinels, or IsServiceError / IsTransportError to tell the
// two tiers apart.
//
// # Listing
//
// ListObjects returns one page. Pass NextMarker back as Marker, or use
// ListNextBatch, ObjectPager or ListAllObjects.
//
// # Usage
//
//	client, err := storage.New(cfg, logger)
//	bucket, err := client.CreateBucket(ctx, "my-bucket")
//	_, err = client.PutObject(ctx, bucket.Name, "key", storage.FromFile(path), storage.ObjectMetadata{})
package storage
