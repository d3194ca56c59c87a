package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

func TestDecodeBundle(t *testing.T) {
	t.Run("array of extractions", func(t *testing.T) {
		b, err := decodeBundle([]byte(`[{"engine_id":"a","text":"x"},{"engine_id":"b","error":"boom"}]`), "doc.pdf")

		require.NoError(t, err)
		assert.Equal(t, "doc.pdf", b.Document)
		require.Len(t, b.Extractions, 2)
		assert.Equal(t, "boom", b.Extractions[1].Error)
	})

	t.Run("object names its document", func(t *testing.T) {
		b, err := decodeBundle([]byte(`  {"document":"deck.pptx","extractions":[{"engine_id":"a"}]}`), "fallback")

		require.NoError(t, err)
		assert.Equal(t, "deck.pptx", b.Document)
		assert.Len(t, b.Extractions, 1)
	})

	t.Run("object without document uses name", func(t *testing.T) {
		b, err := decodeBundle([]byte(`{"extractions":[]}`), "fallback")

		require.NoError(t, err)
		assert.Equal(t, "fallback", b.Document)
		assert.Empty(t, b.Extractions)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := decodeBundle([]byte(" \n"), "x")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed array", func(t *testing.T) {
		_, err := decodeBundle([]byte(`[{"engine_id":`), "x")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed object", func(t *testing.T) {
		_, err := decodeBundle([]byte(`{"extractions": 3}`), "x")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("object without extractions", func(t *testing.T) {
		_, err := decodeBundle([]byte(`{"document":"a.pdf"}`), "x")

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("wrongly typed field", func(t *testing.T) {
		_, err := decodeBundle([]byte(`[{"engine_id":"a","text":42}]`), "x")

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("table rows must be strings", func(t *testing.T) {
		_, err := decodeBundle([]byte(`[{"engine_id":"a","tables":[{"rows":[[1,2]]}]}]`), "x")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("scalar input", func(t *testing.T) {
		_, err := decodeBundle([]byte(`"text"`), "x")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("processing time accepts any value", func(t *testing.T) {
		b, err := decodeBundle([]byte(`[{"engine_id":"a","text":"x","processing_time":"2026-01-01T00:00:00Z","metadata":{"pages":2}}]`), "x")

		require.NoError(t, err)
		assert.Equal(t, "2026-01-01T00:00:00Z", b.Extractions[0].ProcessingTime)
	})
}

func TestBundleDocumentName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/invoice.pdf.json", "invoice.pdf"},
		{"results.json", "results"},
		{"dir/notes.txt", "notes.txt"},
		{".json", ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, bundleDocumentName(tt.path))
		})
	}
}
