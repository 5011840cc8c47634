package ingest

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ItemFailure records one item the batch could not process.
type ItemFailure struct {
	Key string
	Err error
}

// BatchResult summarizes one stage's pass over its records. Processed,
// Skipped and Failed always sum to the input length.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int
	Failures  []ItemFailure
}

// processBatch applies fn to every item, classifying each outcome. One bad
// record never aborts the batch: failures are logged and collected while the
// remaining items still run. Only context cancellation stops the pass early.
func processBatch[T any](ctx context.Context, stage string, items []T, key func(T) string, fn func(context.Context, T) error) (BatchResult, error) {
	var res BatchResult

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := fn(ctx, item)
		switch {
		case err == nil:
			res.Processed++
		case IsSkip(err):
			res.Skipped++
			log.Debug().
				Str("stage", stage).
				Str("key", key(item)).
				Err(err).
				Msg("Record skipped")
		default:
			res.Failed++
			res.Failures = append(res.Failures, ItemFailure{Key: key(item), Err: err})
			log.Error().
				Str("stage", stage).
				Str("key", key(item)).
				Err(err).
				Msg("Record failed")
		}
	}

	return res, nil
}
