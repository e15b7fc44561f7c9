// Package journal records every storage client operation in a database.
//
// A Journal is passed to the storage client with storage.WithRecorder. Each
// operation becomes an Entry row holding its outcome, error kind, status,
// request id and duration. Recording failures are logged and never fail the
// storage operation itself.
package journal
