package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Operation names used in logs, errors and journal events.
const (
	OpCreateBucket = "CreateBucket"
	OpListBuckets  = "ListBuckets"
	OpPutObject    = "PutObject"
	OpGetObject    = "GetObject"
	OpListObjects  = "ListObjects"
	OpDeleteObject = "DeleteObject"
	OpDeleteBucket = "DeleteBucket"
)

// Outcomes of an operation.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event describes one completed client operation.
type Event struct {
	Op         string
	Bucket     string
	Key        string
	Outcome    string
	ErrorKind  string
	StatusCode int
	RequestID  string
	Error      string
	Duration   time.Duration
	StartedAt  time.Time
}

// Recorder receives an Event for every operation. Implementations must be
// safe for concurrent use and must not block the caller for long.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, ev Event)

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// finish logs the operation and forwards it to the recorder.
func (c *client) finish(ctx context.Context, op, bucket, key string, start time.Time, requestID string, err error) {
	ev := Event{
		Op:        op,
		Bucket:    bucket,
		Key:       key,
		Outcome:   OutcomeSuccess,
		RequestID: requestID,
		Duration:  time.Since(start),
		StartedAt: start,
	}

	fields := []zap.Field{zap.String("op", op)}
	if bucket != "" {
		fields = append(fields, zap.String("bucket", bucket))
	}
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	fields = append(fields, zap.Duration("duration", ev.Duration))

	if err != nil {
		ev.Outcome = OutcomeFailure
		ev.Error = err.Error()
		var se *Error
		if errors.As(err, &se) {
			ev.ErrorKind = string(se.Kind)
			ev.StatusCode = se.StatusCode
			if se.RequestID != "" {
				ev.RequestID = se.RequestID
			}
			fields = append(fields, zap.String("kind", ev.ErrorKind))
			if se.StatusCode > 0 {
				fields = append(fields, zap.Int("status", se.StatusCode), zap.String("code", se.Code))
			}
		}
		if ev.RequestID != "" {
			fields = append(fields, zap.String("request_id", ev.RequestID))
		}
		c.logger.Warn("Storage operation failed", append(fields, zap.Error(err))...)
	} else {
		if requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		c.logger.Debug("Storage operation completed", fields...)
	}

	if c.recorder != nil {
		c.recorder.Record(ctx, ev)
	}
}
