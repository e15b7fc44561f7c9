// Package logger builds the zap logger used across the application.
//
// Level and encoding come from Config: debug selects zap's development
// preset, anything else the production preset. Console output is colored and
// drops stack traces; json output is meant for log shippers.
//
// Handlers of the gateway use WithRayID to tag entries with the request's
// ray id so all lines of one request can be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Bucket created", zap.String("bucket", name))
package logger
