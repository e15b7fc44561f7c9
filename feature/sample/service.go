package sample

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"storage-sample/core/storage"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sampleLines is the content of the generated sample file.
var sampleLines = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"01234567890112345678901234",
	"!@#$%^&*()-=[]{};':',.<>/?",
	"01234567890112345678901234",
	"abcdefghijklmnopqrstuvwxyz",
}

// Report summarizes a walkthrough run.
type Report struct {
	Bucket      string
	Buckets     []string
	ETag        string
	ContentType string
	Lines       []string
	Listing     []storage.ObjectSummary
	Cleaned     bool
}

// Service runs the walkthrough.
type Service struct {
	client storage.Client
	cfg    Config
	logger *zap.Logger
	out    io.Writer
}

// NewService creates a walkthrough over client. Downloaded content is
// printed to out.
func NewService(client storage.Client, cfg Config, logger *zap.Logger, out io.Writer) *Service {
	if cfg.Key == "" {
		cfg.Key = "MyObjectKey"
	}
	return &Service{client: client, cfg: cfg, logger: logger, out: out}
}

// BucketName returns a fresh bucket name. Names are global, so a UUID
// keeps repeated runs from colliding.
func (s *Service) BucketName() string {
	if s.cfg.BucketPrefix == "" {
		return uuid.NewString()
	}
	return s.cfg.BucketPrefix + "-" + uuid.NewString()
}

// Run executes every step in order. file is uploaded when set; otherwise a
// temporary sample file is generated and removed afterwards.
func (s *Service) Run(ctx context.Context, file string) (*Report, error) {
	report := &Report{Bucket: s.BucketName()}
	l := s.logger.With(zap.String("bucket", report.Bucket))

	l.Info("Getting started with object storage")

	l.Info("Creating bucket")
	if _, err := s.client.CreateBucket(ctx, report.Bucket); err != nil {
		return report, err
	}

	if err := s.run(ctx, l, report, file); err != nil {
		if !s.cfg.Keep {
			s.cleanup(l, report.Bucket)
		}
		return report, err
	}
	return report, nil
}

func (s *Service) run(ctx context.Context, l *zap.Logger, report *Report, file string) error {
	l.Info("Listing buckets")
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return err
	}
	for _, b := range buckets {
		report.Buckets = append(report.Buckets, b.Name)
		l.Info(" - " + b.Name)
	}

	if file == "" {
		tmp, err := createSampleFile()
		if err != nil {
			return err
		}
		defer os.Remove(tmp)
		file = tmp
	}

	l.Info("Uploading a new object from a file", zap.String("key", s.cfg.Key), zap.String("file", file))
	res, err := s.client.PutObject(ctx, report.Bucket, s.cfg.Key, storage.FromFile(file), storage.ObjectMetadata{})
	if err != nil {
		return err
	}
	report.ETag = res.ETag

	l.Info("Downloading an object", zap.String("key", s.cfg.Key))
	err = storage.WithObject(ctx, s.client, report.Bucket, s.cfg.Key, storage.GetOptions{}, func(obj *storage.Object) error {
		report.ContentType = obj.Metadata.ContentType
		fmt.Fprintf(s.out, "Content-Type: %s\n", obj.Metadata.ContentType)
		lines, err := displayText(s.out, obj)
		report.Lines = lines
		return err
	})
	if err != nil {
		return err
	}

	l.Info("Listing objects", zap.String("prefix", s.cfg.ListPrefix))
	listing, err := s.client.ListObjects(ctx, report.Bucket, storage.ListOptions{Prefix: s.cfg.ListPrefix})
	if err != nil {
		return err
	}
	for _, obj := range listing.Objects {
		report.Listing = append(report.Listing, obj)
		l.Info(fmt.Sprintf(" - %s, size: %s", obj.Key, humanize.Bytes(uint64(obj.Size))))
	}

	if s.cfg.Keep {
		l.Info("Keeping bucket and object")
		return nil
	}

	l.Info("Deleting an object", zap.String("key", s.cfg.Key))
	if err := s.client.DeleteObject(ctx, report.Bucket, s.cfg.Key); err != nil {
		return err
	}

	l.Info("Deleting bucket")
	if err := s.client.DeleteBucket(ctx, report.Bucket); err != nil {
		return err
	}
	report.Cleaned = true
	return nil
}

// cleanup removes whatever a failed run left behind. It gets its own context
// so an expired caller deadline does not strand the bucket.
func (s *Service) cleanup(l *zap.Logger, bucket string) {
	ctx := context.Background()
	n, err := storage.EmptyBucket(ctx, s.client, bucket, 0)
	if err == nil {
		err = s.client.DeleteBucket(ctx, bucket)
	}
	if err != nil {
		l.Warn("Cleanup after failure was incomplete", zap.Int("objects_deleted", n), zap.Error(err))
		return
	}
	l.Info("Cleaned up after failure", zap.Int("objects_deleted", n))
}

// displayText prints r line by line, indented, and returns the lines.
func displayText(w io.Writer, r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		fmt.Fprintf(w, "    %s\n", scanner.Text())
	}
	fmt.Fprintln(w)
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("failed to read object content: %w", err)
	}
	return lines, nil
}

// createSampleFile writes the sample text to a temporary file.
func createSampleFile() (string, error) {
	f, err := os.CreateTemp("", "storage-sample-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create sample file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, line := range sampleLines {
		_, _ = w.WriteString(line + "\n")
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write sample file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write sample file: %w", err)
	}
	return f.Name(), nil
}

// ReportError logs err in the tier it belongs to.
func ReportError(l *zap.Logger, err error) {
	var se *storage.Error
	switch {
	case storage.IsServiceError(err) && errors.As(err, &se):
		l.Error("Request reached the storage service but was rejected",
			zap.String("message", se.Message),
			zap.Int("status", se.StatusCode),
			zap.String("code", se.Code),
			zap.String("type", se.Type),
			zap.String("request_id", se.RequestID),
			zap.String("kind", string(se.Kind)),
		)
	case storage.IsTransportError(err):
		l.Error("Client could not communicate with the storage service", zap.Error(err))
	default:
		l.Error("Walkthrough failed", zap.Error(err))
	}
}
