// Package server holds the HTTP gateway configuration.
//
// The gateway itself is assembled by the start command; this package defines
// the port, API key, upload limit and shutdown bound, and validates them.
package server
