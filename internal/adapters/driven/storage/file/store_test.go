package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

func testReport(id string, createdAt time.Time) *domain.ProcessReport {
	return &domain.ProcessReport{
		ID:           id,
		Document:     "invoice-" + id + ".pdf",
		DocumentType: domain.DocumentTypePDF,
		Engines:      []string{"pdftext", "ocr"},
		Extractions: []domain.RawExtraction{
			{EngineID: "pdftext", Text: "Total due: 120 EUR"},
			{EngineID: "ocr", Error: "exit status 2"},
		},
		Comparison: &domain.ComparisonReport{
			TotalEngines: 2,
			Engines:      []string{"pdftext", "ocr"},
			Rankings: []domain.ScoredResult{
				{EngineID: "pdftext", Score: 0.018, Metrics: domain.Metric{EngineID: "pdftext", TextLength: 18, WordCount: 4}},
				{EngineID: "ocr", Score: -50, Metrics: domain.Metric{EngineID: "ocr", HasErrors: true}},
			},
			BestProcessor:   &domain.ScoredResult{EngineID: "pdftext", Score: 0.018},
			Recommendations: []string{"Best performing processor: pdftext"},
		},
		CreatedAt: createdAt,
	}
}

func newTestStore(t *testing.T, opts ...Option) *ReportStore {
	t.Helper()
	store, err := NewReportStore(t.TempDir(), opts...)
	require.NoError(t, err)
	return store
}

func TestNewReportStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewReportStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docfuse", "reports"), store.Dir())
	assert.DirExists(t, store.Dir())
}

func TestNewReportStore_MkdirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := NewReportStore(filepath.Join(file, "reports"))
	assert.Error(t, err)
}

func TestReportStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testReport("r1", created)))

	info, err := os.Stat(filepath.Join(store.Dir(), "r1.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.NoFileExists(t, filepath.Join(store.Dir(), "r1.md"))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "invoice-r1.pdf", got.Document)
	assert.Equal(t, "exit status 2", got.Extractions[1].Error)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestReportStore_SaveWithMarkdown(t *testing.T) {
	store := newTestStore(t, WithMarkdown())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testReport("r1", time.Now().UTC())))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "r1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Fusion report: invoice-r1.pdf")

	require.NoError(t, store.Delete(ctx, "r1"))
	assert.NoFileExists(t, filepath.Join(store.Dir(), "r1.md"))
}

func TestReportStore_Save_InvalidInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", ".", "..", "../escape", `a\b`} {
		err := store.Save(ctx, testReport(id, time.Now()))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "id %q", id)
	}
	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidInput)
}

func TestReportStore_Save_StampsCreatedAt(t *testing.T) {
	store := newTestStore(t)

	report := testReport("r1", time.Time{})
	require.NoError(t, store.Save(context.Background(), report))
	assert.False(t, report.CreatedAt.IsZero())
}

func TestReportStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Get(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportStore_Get_Corrupt(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "bad.json"), []byte("{"), 0o600))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestReportStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testReport("old", base)))
	require.NoError(t, store.Save(ctx, testReport("new", base.Add(time.Hour))))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "corrupt.json"), []byte("nope"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "sub.json"), 0o700))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[1].ID)
	assert.Equal(t, "pdftext", all[0].BestProcessor)
	assert.Equal(t, 2, all[0].EngineCount)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].ID)
}

func TestReportStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testReport("r1", time.Now())))
	require.NoError(t, store.Delete(ctx, "r1"))

	_, err := store.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "r1"), domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, ".."), domain.ErrNotFound)
}

func TestReportStore_ConcurrentSaves(t *testing.T) {
	store := newTestStore(t, WithMarkdown())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, testReport("shared", time.Now().UTC())))
			_, _ = store.List(ctx, 0)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "shared", got.ID)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
