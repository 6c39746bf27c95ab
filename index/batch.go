package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fioneer/fioneer/ai"
)

// batchEmbedder embeds texts in fixed-size batches, retrying each batch
// with exponential backoff.
type batchEmbedder struct {
	embedder   ai.Embedder
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// embed returns one normalized vector per text, in input order.
func (b *batchEmbedder) embed(ctx context.Context, texts []string, done func(n int)) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))
		batch, err := b.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, v := range batch {
			vectors = append(vectors, NormalizeVector(v))
		}
		if done != nil {
			done(end - start)
		}
	}
	return vectors, nil
}

func (b *batchEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = b.retryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(b.maxRetries-1)), ctx)

	attempt := 0
	var embeddings [][]float32
	err := backoff.Retry(func() error {
		attempt++
		var err error
		embeddings, err = b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			b.logger.Debug("embedding batch failed", "attempt", attempt, "size", len(texts), "err", err)
			return err
		}
		if len(embeddings) != len(texts) {
			return backoff.Permanent(fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(texts), len(embeddings)))
		}
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("embedding batch of %d after %d attempts: %w", len(texts), attempt, err)
	}
	return embeddings, nil
}
