package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

func TestProcessCmd_RequiresArgs(t *testing.T) {
	_, err := execute(t, "process")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestProcessCmd_NoEngines(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "process", "a.pdf", "b.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoEngines)
	assert.Contains(t, err.Error(), "a.pdf")
	assert.Contains(t, err.Error(), "b.pdf")
}

func TestWatchCmd_Flags(t *testing.T) {
	flag := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, "500ms", flag.DefValue)
	assert.NotNil(t, watchCmd.Flags().Lookup("existing"))
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "watch", "/does/not/exist")

	assert.Error(t, err)
}

// cancelWriter cancels the command context after the first write.
type cancelWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.buf.Write(p)
	w.cancel()
	return n, err
}

func TestWatchCmd_HandlesExistingBundles(t *testing.T) {
	ts := setupTestServices(t)
	dir := t.TempDir()
	writeBundle(t, dir, "invoice.pdf.json", sampleExtractions())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out := &cancelWriter{cancel: cancel}

	resetFlags(rootCmd)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"watch", dir, "--existing", "--format", "json"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)

	require.NoError(t, err)
	summary := decodeOutput[domain.ReportSummary](t, out.buf.String())
	assert.Equal(t, "invoice.pdf", summary.Document)
	assert.Equal(t, 2, summary.EngineCount)

	summaries, err := ts.reports.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
