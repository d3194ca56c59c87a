package file

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
	"github.com/custodia-labs/docfuse/internal/export"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

const (
	jsonExt     = ".json"
	markdownExt = ".md"
)

// ReportStore keeps one JSON file per report in a directory.
type ReportStore struct {
	mu       sync.RWMutex
	dir      string
	markdown bool
}

// Option configures a ReportStore.
type Option func(*ReportStore)

// WithMarkdown writes a Markdown rendering next to every saved report.
func WithMarkdown() Option {
	return func(s *ReportStore) {
		s.markdown = true
	}
}

// NewReportStore creates a report store rooted at dir.
// If dir is empty, defaults to ~/.docfuse/reports.
func NewReportStore(dir string, opts ...Option) (*ReportStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".docfuse", "reports")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}

	s := &ReportStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the reports directory.
func (s *ReportStore) Dir() string {
	return s.dir
}

// Save writes the report, replacing any report with the same ID.
func (s *ReportStore) Save(_ context.Context, report *domain.ProcessReport) error {
	if report == nil || !validID(report.ID) {
		return domain.ErrInvalidInput
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path(report.ID, jsonExt), data); err != nil {
		return fmt.Errorf("writing report %s: %w", report.ID, err)
	}

	if s.markdown {
		var b strings.Builder
		if err := export.Markdown(&b, report); err != nil {
			return fmt.Errorf("rendering report %s: %w", report.ID, err)
		}
		if err := writeFileAtomic(s.path(report.ID, markdownExt), []byte(b.String())); err != nil {
			return fmt.Errorf("writing markdown %s: %w", report.ID, err)
		}
	}
	return nil
}

// Get reads a report by ID.
func (s *ReportStore) Get(_ context.Context, id string) (*domain.ProcessReport, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(s.path(id, jsonExt))
}

// List returns report summaries, newest first. A limit of zero or less
// returns every report. Files that fail to decode are skipped.
func (s *ReportStore) List(_ context.Context, limit int) ([]domain.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading reports directory: %w", err)
	}

	summaries := []domain.ReportSummary{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != jsonExt {
			continue
		}
		report, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		summaries = append(summaries, report.Summary())
	}

	slices.SortFunc(summaries, func(a, b domain.ReportSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Delete removes a report and its Markdown rendering.
func (s *ReportStore) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id, jsonExt)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	if err := os.Remove(s.path(id, markdownExt)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting markdown %s: %w", id, err)
	}
	return nil
}

func (s *ReportStore) path(id, ext string) string {
	return filepath.Join(s.dir, id+ext)
}

func (s *ReportStore) read(path string) (*domain.ProcessReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var report domain.ProcessReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return &report, nil
}

// validID rejects IDs that would escape the reports directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path, so readers never see a partial report.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
