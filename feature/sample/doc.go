// Package sample runs the getting-started walkthrough against a storage
// backend: create a uniquely named bucket, list buckets, upload a file,
// download and print it, list by prefix, then delete the object and bucket.
//
// Failures are reported in two tiers. A service error means the request
// reached the backend and was rejected; its status, code, type and request id
// are logged. A transport error means the client could not talk to the
// backend at all.
package sample
