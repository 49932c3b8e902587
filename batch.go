package extjson

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

// EncodeBatch encodes values concurrently, bounded by WithConcurrency.
// The result keeps the input order. The first failure cancels the remaining
// work and is returned with the failing index in its message.
func (e *Encoder) EncodeBatch(ctx context.Context, values []document.Value) ([]*jsontree.Node, error) {
	out := make([]*jsontree.Node, len(values))
	start := time.Now()
	err := runBatch(ctx, e.opts.concurrency, len(values), func(i int) error {
		n, err := e.Encode(values[i])
		if err != nil {
			return err
		}
		out[i] = n
		return nil
	})
	e.opts.metricsCollector.RecordBatch("encode", len(values), time.Since(start), err)
	e.opts.logger.LogBatch(ctx, "encode", len(values), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBatch decodes nodes concurrently under a shared hint, bounded by
// WithConcurrency. The result keeps the input order.
func (d *Decoder) DecodeBatch(ctx context.Context, nodes []*jsontree.Node, hint *Hint) ([]document.Value, error) {
	out := make([]document.Value, len(nodes))
	start := time.Now()
	err := runBatch(ctx, d.opts.concurrency, len(nodes), func(i int) error {
		v, err := d.Decode(nodes[i], hint)
		if err != nil {
			return err
		}
		out[i] = v
		return nil
	})
	d.opts.metricsCollector.RecordBatch("decode", len(nodes), time.Since(start), err)
	d.opts.logger.LogBatch(ctx, "decode", len(nodes), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func runBatch(ctx context.Context, limit, count int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
