// Package dedup removes duplicate and near-duplicate texts from a collection.
package dedup

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Deduplicator removes duplicates while preserving first-occurrence order.
type Deduplicator struct {
	embedder  driven.EmbeddingService
	threshold float64
}

// Option configures the deduplicator.
type Option func(*Deduplicator)

// WithEmbedder enables the fuzzy method. A nil service leaves it disabled.
func WithEmbedder(svc driven.EmbeddingService) Option {
	return func(d *Deduplicator) {
		d.embedder = svc
	}
}

// WithThreshold sets the cosine similarity at or above which texts are
// fuzzy duplicates. Values outside (0, 1] are ignored.
func WithThreshold(threshold float64) Option {
	return func(d *Deduplicator) {
		if threshold > 0 && threshold <= 1 {
			d.threshold = threshold
		}
	}
}

// New creates a deduplicator.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{threshold: domain.DefaultFuzzyThreshold}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FuzzyAvailable reports whether fuzzy deduplication can run.
func (d *Deduplicator) FuzzyAvailable() bool {
	return d.embedder != nil
}

// Threshold returns the fuzzy similarity threshold.
func (d *Deduplicator) Threshold() float64 {
	return d.threshold
}

// Dedupe removes duplicates from texts. Unknown methods, a missing embedder
// and embedding failures all fall back to exact hashing. Result.Method is
// the method actually applied.
func (d *Deduplicator) Dedupe(ctx context.Context, texts []string, method domain.DedupMethod) domain.DedupResult {
	if method == domain.DedupFuzzy && d.FuzzyAvailable() && len(texts) > 0 {
		if result, err := d.fuzzy(ctx, texts); err == nil {
			return result
		}
	}
	return Exact(texts)
}

// Exact keeps the first occurrence of each distinct text by SHA-256 hash.
func Exact(texts []string) domain.DedupResult {
	seen := make(map[[sha256.Size]byte]struct{}, len(texts))
	kept := make([]string, 0, len(texts))
	duplicates := make([]string, 0)

	for _, text := range texts {
		sum := sha256.Sum256([]byte(text))
		if _, ok := seen[sum]; ok {
			duplicates = append(duplicates, text)
			continue
		}
		seen[sum] = struct{}{}
		kept = append(kept, text)
	}

	return newResult(texts, kept, duplicates, domain.DedupExact)
}

// fuzzy compares each text, in input order, against the texts kept so far.
func (d *Deduplicator) fuzzy(ctx context.Context, texts []string) (domain.DedupResult, error) {
	vectors, err := d.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.DedupResult{}, err
	}
	if len(vectors) != len(texts) {
		return domain.DedupResult{}, domain.ErrEmbeddingUnavailable
	}

	kept := make([]string, 0, len(texts))
	keptVectors := make([][]float32, 0, len(texts))
	duplicates := make([]string, 0)

	for i, text := range texts {
		duplicate := false
		for _, v := range keptVectors {
			if CosineSimilarity(vectors[i], v) >= d.threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			duplicates = append(duplicates, text)
			continue
		}
		kept = append(kept, text)
		keptVectors = append(keptVectors, vectors[i])
	}

	return newResult(texts, kept, duplicates, domain.DedupFuzzy), nil
}

func newResult(texts, kept, duplicates []string, method domain.DedupMethod) domain.DedupResult {
	return domain.DedupResult{
		Kept:          kept,
		OriginalCount: len(texts),
		KeptCount:     len(kept),
		Removed:       len(texts) - len(kept),
		Duplicates:    duplicates,
		Method:        method,
	}
}

// CosineSimilarity computes cosine similarity between two vectors.
// Mismatched lengths and zero vectors have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
