package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
)

type decoded[T any] struct {
	value T
	err   error
}

// decodeInOrder decodes files on the worker pool one window at a time and hands
// each result to apply in input order. Writes therefore stay sequential and
// deterministic while the JSON parsing runs in parallel.
func decodeInOrder[F, T any](
	ctx context.Context,
	pool *ants.Pool,
	window int,
	files []F,
	decode func(context.Context, F) (T, error),
	apply func(F, T) error,
) error {
	if window < 1 {
		window = 1
	}

	for lo := 0; lo < len(files); lo += window {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := files[lo:min(lo+window, len(files))]
		results := make([]decoded[T], len(batch))

		var workers sync.WaitGroup
		for i := range batch {
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()
				results[i] = decodeSafely(ctx, batch[i], decode)
			}); err != nil {
				workers.Done()
				workers.Wait()
				return fmt.Errorf("submit decode task to worker pool: %w", err)
			}
		}
		workers.Wait()

		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if results[i].err != nil {
				return results[i].err
			}
			if err := apply(batch[i], results[i].value); err != nil {
				return err
			}
		}
	}

	return nil
}

func decodeSafely[F, T any](ctx context.Context, file F, decode func(context.Context, F) (T, error)) decoded[T] {
	var out decoded[T]
	var catcher panics.Catcher
	catcher.Try(func() {
		out.value, out.err = decode(ctx, file)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		out.err = fmt.Errorf("decode panicked: %w", recovered.AsError())
	}
	return out
}
