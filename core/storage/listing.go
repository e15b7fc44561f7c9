package storage

import (
	"context"
)

// ListNextBatch fetches the page following prev. When prev is not truncated
// it returns an empty, non-truncated listing without contacting the backend.
func ListNextBatch(ctx context.Context, c Client, prev ObjectListing) (ObjectListing, error) {
	if !prev.IsTruncated {
		return ObjectListing{
			Bucket:  prev.Bucket,
			Prefix:  prev.Prefix,
			Marker:  prev.NextMarker,
			MaxKeys: prev.MaxKeys,
			Objects: []ObjectSummary{},
		}, nil
	}
	if prev.NextMarker == "" {
		return ObjectListing{}, ErrStalledListing
	}
	return c.ListObjects(ctx, prev.Bucket, ListOptions{
		Prefix:  prev.Prefix,
		Marker:  prev.NextMarker,
		MaxKeys: prev.MaxKeys,
	})
}

// ObjectPager walks a listing page by page.
//
//	pager := storage.NewObjectPager(client, "bucket", storage.ListOptions{Prefix: "logs/"})
//	for pager.HasNext() {
//		page, err := pager.Next(ctx)
//		...
//	}
type ObjectPager struct {
	client Client
	bucket string
	opts   ListOptions
	done   bool
}

// NewObjectPager creates a pager starting at opts.Marker.
func NewObjectPager(c Client, bucket string, opts ListOptions) *ObjectPager {
	return &ObjectPager{client: c, bucket: bucket, opts: opts}
}

// HasNext reports whether another page may be fetched.
func (p *ObjectPager) HasNext() bool {
	return !p.done
}

// Next fetches the next page. A failed request can be retried by calling
// Next again; the marker only advances on success.
func (p *ObjectPager) Next(ctx context.Context) (ObjectListing, error) {
	if p.done {
		return ObjectListing{}, ErrNoMorePages
	}

	page, err := p.client.ListObjects(ctx, p.bucket, p.opts)
	if err != nil {
		return ObjectListing{}, err
	}
	if !page.IsTruncated {
		p.done = true
		return page, nil
	}
	// A marker that does not move forward would repeat the same page forever.
	if page.NextMarker == "" || page.NextMarker <= p.opts.Marker {
		p.done = true
		return page, ErrStalledListing
	}
	p.opts.Marker = page.NextMarker
	return page, nil
}

// ListAllObjects collects every object under prefix across all pages. On
// error it returns what was collected so far, including the objects of a
// page that ended in ErrStalledListing.
func ListAllObjects(ctx context.Context, c Client, bucket, prefix string) ([]ObjectSummary, error) {
	var all []ObjectSummary
	pager := NewObjectPager(c, bucket, ListOptions{Prefix: prefix})
	for pager.HasNext() {
		page, err := pager.Next(ctx)
		// A stalled page still carries objects.
		all = append(all, page.Objects...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}
