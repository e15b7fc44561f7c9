package storage

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultDeleteWorkers bounds concurrent deletes in EmptyBucket.
const DefaultDeleteWorkers = 8

// WithObject opens an object, passes it to fn and always closes it, so the
// connection is released on every path out of fn.
func WithObject(ctx context.Context, c Client, bucket, key string, opts GetOptions, fn func(*Object) error) (err error) {
	obj, err := c.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := obj.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(obj)
}

// EmptyBucket deletes every object in bucket using up to workers concurrent
// deletes, and returns how many objects were removed. The bucket itself is
// kept. The first failure stops the walk.
func EmptyBucket(ctx context.Context, c Client, bucket string, workers int) (int, error) {
	if workers <= 0 {
		workers = DefaultDeleteWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var deleted atomic.Int64
	pager := NewObjectPager(c, bucket, ListOptions{})
	for pager.HasNext() {
		page, err := pager.Next(gctx)
		if err != nil {
			if werr := g.Wait(); werr != nil {
				return int(deleted.Load()), werr
			}
			return int(deleted.Load()), err
		}
		for _, obj := range page.Objects {
			key := obj.Key
			g.Go(func() error {
				if err := c.DeleteObject(gctx, bucket, key); err != nil {
					return err
				}
				deleted.Add(1)
				return nil
			})
		}
	}

	err := g.Wait()
	return int(deleted.Load()), err
}
