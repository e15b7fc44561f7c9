package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storage-sample/core/journal"
	"storage-sample/core/logger"
	"storage-sample/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// metaHeaderPrefix marks request headers stored as user metadata.
const metaHeaderPrefix = "X-Meta-"

// Journal is the read side of the operation journal.
type Journal interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
	Summary(ctx context.Context) ([]journal.OpSummary, error)
}

// Handler serves the storage API over HTTP.
type Handler struct {
	client  storage.Client
	journal Journal
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. journal may be nil.
func NewHandler(client storage.Client, j Journal, logger *zap.Logger) *Handler {
	return &Handler{client: client, journal: j, logger: logger}
}

// RegisterRoutes registers the gateway routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets")
	group.Get("/", h.HandleListBuckets)
	group.Put("/:bucket", h.HandleCreateBucket)
	group.Delete("/:bucket", h.HandleDeleteBucket)
	group.Get("/:bucket/objects", h.HandleListObjects)
	group.Put("/:bucket/objects/*", h.HandlePutObject)
	group.Get("/:bucket/objects/*", h.HandleGetObject)
	group.Delete("/:bucket/objects/*", h.HandleDeleteObject)

	if h.journal != nil {
		app.Get("/journal", h.HandleJournal)
		app.Get("/journal/summary", h.HandleJournalSummary)
	}
}

func objectKey(c *fiber.Ctx) string {
	raw := c.Params("*")
	if key, err := url.PathUnescape(raw); err == nil {
		return key
	}
	return raw
}

// HandleListBuckets lists buckets.
// @Summary List Buckets
// @Description Lists every bucket owned by the configured credentials.
// @Tags buckets
// @Produce json
// @Success 200 {object} map[string]interface{} "Buckets"
// @Failure 502 {object} ErrorResponse "Storage unreachable"
// @Router /buckets [get]
func (h *Handler) HandleListBuckets(c *fiber.Ctx) error {
	buckets, err := h.client.ListBuckets(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"buckets": buckets})
}

// HandleCreateBucket creates a bucket.
// @Summary Create Bucket
// @Description Creates a bucket. Creating a bucket you already own returns it.
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Success 200 {object} storage.Bucket
// @Failure 400 {object} ErrorResponse "Invalid name"
// @Failure 409 {object} ErrorResponse "Name taken"
// @Router /buckets/{bucket} [put]
func (h *Handler) HandleCreateBucket(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	bucket, err := h.client.CreateBucket(c.Context(), c.Params("bucket"))
	if err != nil {
		return writeError(c, err)
	}
	l.Info("Bucket created", zap.String("bucket", bucket.Name))
	return c.JSON(bucket)
}

// HandleDeleteBucket deletes a bucket.
// @Summary Delete Bucket
// @Description Deletes an empty bucket. With force=true the bucket is emptied first.
// @Tags buckets
// @Param bucket path string true "Bucket name"
// @Param force query boolean false "Delete all objects first"
// @Success 204
// @Failure 404 {object} ErrorResponse "No such bucket"
// @Failure 409 {object} ErrorResponse "Bucket not empty"
// @Router /buckets/{bucket} [delete]
func (h *Handler) HandleDeleteBucket(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	name := c.Params("bucket")

	if c.QueryBool("force") {
		n, err := storage.EmptyBucket(c.Context(), h.client, name, 0)
		if err != nil {
			l.Error("Failed to empty bucket", zap.String("bucket", name), zap.Int("deleted", n), zap.Error(err))
			return writeError(c, err)
		}
		l.Info("Bucket emptied", zap.String("bucket", name), zap.Int("deleted", n))
	}

	if err := h.client.DeleteBucket(c.Context(), name); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListObjects lists one page of objects.
// @Summary List Objects
// @Description Lists objects in key order. Pass next_marker back as marker to continue.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Param marker query string false "Start after this key"
// @Param max-keys query int false "Page size (max 1000)"
// @Success 200 {object} storage.ObjectListing
// @Failure 404 {object} ErrorResponse "No such bucket"
// @Router /buckets/{bucket}/objects [get]
func (h *Handler) HandleListObjects(c *fiber.Ctx) error {
	listing, err := h.client.ListObjects(c.Context(), c.Params("bucket"), storage.ListOptions{
		Prefix:  c.Query("prefix"),
		Marker:  c.Query("marker"),
		MaxKeys: c.QueryInt("max-keys", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(listing)
}

// HandlePutObject uploads an object.
// @Summary Put Object
// @Description Stores the request body under the key. Content-Type, Content-Encoding and X-Meta-* headers become metadata.
// @Tags objects
// @Accept octet-stream
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 200 {object} storage.PutResult
// @Failure 411 {object} ErrorResponse "Length required"
// @Router /buckets/{bucket}/objects/{key} [put]
func (h *Handler) HandlePutObject(c *fiber.Ctx) error {
	body := c.Body()
	var content storage.Content
	if c.Request().Header.ContentLength() < 0 {
		content = storage.FromReader(bytes.NewReader(body), -1)
	} else {
		content = storage.FromBytes(body)
	}

	meta := storage.ObjectMetadata{
		ContentType:     c.Get(fiber.HeaderContentType),
		ContentEncoding: c.Get(fiber.HeaderContentEncoding),
	}
	for name, value := range c.GetReqHeaders() {
		canonical := http.CanonicalHeaderKey(name)
		if !strings.HasPrefix(canonical, metaHeaderPrefix) || len(value) == 0 {
			continue
		}
		if meta.UserMetadata == nil {
			meta.UserMetadata = make(map[string]string)
		}
		meta.UserMetadata[strings.ToLower(strings.TrimPrefix(canonical, metaHeaderPrefix))] = value[0]
	}

	res, err := h.client.PutObject(c.Context(), c.Params("bucket"), objectKey(c), content, meta)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderETag, `"`+res.ETag+`"`)
	return c.JSON(res)
}

// HandleGetObject streams an object.
// @Summary Get Object
// @Description Streams object content. Conditional headers and a single byte range are honored.
// @Tags objects
// @Produce octet-stream
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Param Range header string false "bytes=start-end, bytes=start- or bytes=-last"
// @Success 200 {file} binary
// @Success 206 {file} binary
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 412 {object} ErrorResponse "Precondition failed"
// @Failure 416 {object} ErrorResponse "Invalid range"
// @Router /buckets/{bucket}/objects/{key} [get]
func (h *Handler) HandleGetObject(c *fiber.Ctx) error {
	opts, err := getOptions(c)
	if errors.Is(err, storage.ErrInvalidRange) {
		return writeError(c, err)
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	obj, err := h.client.GetObject(c.Context(), c.Params("bucket"), objectKey(c), opts)
	if err != nil {
		return writeError(c, err)
	}

	meta := obj.Metadata
	if meta.ContentType != "" {
		c.Set(fiber.HeaderContentType, meta.ContentType)
	}
	if meta.ContentEncoding != "" {
		c.Set(fiber.HeaderContentEncoding, meta.ContentEncoding)
	}
	if meta.ETag != "" {
		c.Set(fiber.HeaderETag, `"`+meta.ETag+`"`)
	}
	if !meta.LastModified.IsZero() {
		c.Set(fiber.HeaderLastModified, meta.LastModified.UTC().Format(http.TimeFormat))
	}
	for k, v := range meta.UserMetadata {
		c.Set(metaHeaderPrefix+k, v)
	}
	if obj.ContentRange != "" {
		c.Set(fiber.HeaderContentRange, obj.ContentRange)
		c.Status(fiber.StatusPartialContent)
	}

	// The stream is closed by fasthttp once the body is written.
	return c.SendStream(obj, int(meta.ContentLength))
}

func getOptions(c *fiber.Ctx) (storage.GetOptions, error) {
	opts := storage.GetOptions{
		IfMatch:     c.Get(fiber.HeaderIfMatch),
		IfNoneMatch: c.Get(fiber.HeaderIfNoneMatch),
	}
	if v := c.Get(fiber.HeaderIfModifiedSince); v != "" {
		t, err := http.ParseTime(v)
		if err != nil {
			return opts, err
		}
		opts.IfModifiedSince = t
	}
	if v := c.Get(fiber.HeaderIfUnmodifiedSince); v != "" {
		t, err := http.ParseTime(v)
		if err != nil {
			return opts, err
		}
		opts.IfUnmodifiedSince = t
	}
	if v := c.Get(fiber.HeaderRange); v != "" {
		r, err := parseRange(v)
		if err != nil {
			return opts, err
		}
		opts.Range = r
	}
	return opts, nil
}

// parseRange accepts "bytes=start-", "bytes=start-end" and "bytes=-last".
func parseRange(v string) (*storage.Range, error) {
	byteRange, ok := strings.CutPrefix(v, "bytes=")
	first, last, found := strings.Cut(byteRange, "-")
	if !ok || !found || strings.Contains(byteRange, ",") {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidRange, v)
	}

	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q", storage.ErrInvalidRange, v)
		}
		return &storage.Range{Last: n}, nil
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidRange, v)
	}
	r := &storage.Range{Start: start, End: -1}
	if last != "" {
		r.End, err = strconv.ParseInt(last, 10, 64)
		if err != nil || r.End < start {
			return nil, fmt.Errorf("%w: %q", storage.ErrInvalidRange, v)
		}
	}
	return r, nil
}

// HandleDeleteObject deletes an object.
// @Summary Delete Object
// @Description Deletes an object. Deleting a missing key succeeds.
// @Tags objects
// @Param bucket path string true "Bucket name"
// @Param key path string true "Object key"
// @Success 204
// @Failure 404 {object} ErrorResponse "No such bucket"
// @Router /buckets/{bucket}/objects/{key} [delete]
func (h *Handler) HandleDeleteObject(c *fiber.Ctx) error {
	if err := h.client.DeleteObject(c.Context(), c.Params("bucket"), objectKey(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleJournal returns recent operations.
// @Summary Recent Operations
// @Description Returns the latest recorded storage operations, newest first.
// @Tags journal
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {array} journal.Entry
// @Failure 500 {object} ErrorResponse "Journal unavailable"
// @Router /journal [get]
func (h *Handler) HandleJournal(c *fiber.Ctx) error {
	entries, err := h.journal.Recent(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Journal query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(entries)
}

// HandleJournalSummary returns per-operation counts.
// @Summary Operation Summary
// @Description Counts recorded operations per operation and outcome.
// @Tags journal
// @Produce json
// @Success 200 {array} journal.OpSummary
// @Failure 500 {object} ErrorResponse "Journal unavailable"
// @Router /journal/summary [get]
func (h *Handler) HandleJournalSummary(c *fiber.Ctx) error {
	rows, err := h.journal.Summary(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Journal summary failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(rows)
}
