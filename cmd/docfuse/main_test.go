package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func TestBootstrap_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[language]
enabled = false

[storage]
backend = "memory"

[engines]
enabled = ["pdftext"]

[engines.pdftext]
command = "pdftotext"
args = ["-layout"]
`)

	svc, cleanup, err := bootstrap(context.Background(), dir)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, []string{"pdftext"}, svc.Fusion.Engines())

	report, err := svc.Fusion.Analyse(context.Background(), "a.pdf", []domain.RawExtraction{
		{EngineID: "pdftext", Text: "Fused text from one engine."},
	})
	require.NoError(t, err)

	got, err := svc.Reports.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Document)

	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
}

func TestBootstrap_SQLiteBackendUnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[language]\nenabled = false\n")

	svc, cleanup, err := bootstrap(context.Background(), dir)
	require.NoError(t, err)

	_, err = svc.Fusion.Analyse(context.Background(), "b.pdf", []domain.RawExtraction{
		{EngineID: "x", Text: "Some text."},
	})
	require.NoError(t, err)
	cleanup()

	_, err = os.Stat(filepath.Join(dir, "data", "reports.db"))
	assert.NoError(t, err)
}

func TestBootstrap_FileBackendRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[language]
enabled = false

[storage]
backend = "file"
path = "out"
`)

	svc, cleanup, err := bootstrap(context.Background(), dir)
	require.NoError(t, err)
	defer cleanup()

	report, err := svc.Fusion.Analyse(context.Background(), "c.pdf", []domain.RawExtraction{
		{EngineID: "x", Text: "Some text."},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "out", report.ID+".json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out", report.ID+".md"))
	assert.NoError(t, err)
}

func TestBootstrap_EngineWithoutCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[language]
enabled = false

[storage]
backend = "memory"

[engines]
enabled = ["broken"]
`)

	_, _, err := bootstrap(context.Background(), dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "configure engines")
}

func TestBootstrap_DotEnvOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[language]\nenabled = false\n\n[storage]\nbackend = \"file\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCFUSE_STORAGE_BACKEND=memory\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCFUSE_STORAGE_BACKEND") })

	svc, cleanup, err := bootstrap(context.Background(), dir)
	require.NoError(t, err)
	defer cleanup()

	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)

	_, err = os.Stat(filepath.Join(dir, "reports"))
	assert.True(t, os.IsNotExist(err))
}

func TestBootstrap_CorruptConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "not = [valid")

	_, _, err := bootstrap(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestOpenReportStore_UnknownBackend(t *testing.T) {
	_, _, err := openReportStore(context.Background(), t.TempDir(), domain.StorageSettings{Backend: "redis"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenReportStore_PostgresWithoutDSN(t *testing.T) {
	_, _, err := openReportStore(context.Background(), t.TempDir(), domain.StorageSettings{Backend: domain.StoragePostgres})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenReportStore_AbsolutePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs")

	_, closeStore, err := openReportStore(context.Background(), t.TempDir(), domain.StorageSettings{Backend: domain.StorageSQLite, Path: abs})
	require.NoError(t, err)
	closeStore()

	_, err = os.Stat(filepath.Join(abs, "reports.db"))
	assert.NoError(t, err)
}

func TestResolveConfigDir(t *testing.T) {
	got, err := resolveConfigDir("/etc/docfuse")
	require.NoError(t, err)
	assert.Equal(t, "/etc/docfuse", got)

	t.Setenv("HOME", "/home/tester")
	got, err = resolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".docfuse"), got)
}
