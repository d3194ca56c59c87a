package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
	"github.com/custodia-labs/docfuse/internal/core/ports/driving"
	"github.com/custodia-labs/docfuse/internal/curation"
	"github.com/custodia-labs/docfuse/internal/curation/dedup"
	"github.com/custodia-labs/docfuse/internal/fusion"
	"github.com/custodia-labs/docfuse/internal/logger"
)

// Ensure FusionService implements the interface.
var _ driving.FusionService = (*FusionService)(nil)

// Enrichment defaults.
const (
	enrichmentMaxTokens   = 1024
	enrichmentTemperature = 0.2
)

// FusionService runs engines for a document and fuses their results.
// Optional collaborators (LLM, embeddings, language detector, report store)
// may be nil; the matching capability is then skipped or degraded.
type FusionService struct {
	settings   domain.AppSettings
	engines    []driven.Engine
	comparator *fusion.Comparator
	curator    *curation.Curator
	dedup      *dedup.Deduplicator
	detector   driven.LanguageDetector
	embedder   driven.EmbeddingService
	llm        driven.LLMService
	prompts    driven.PromptStore
	reports    driven.ReportStore
	limiter    *rate.Limiter

	now   func() time.Time
	newID func() string
}

// FusionOption configures a FusionService.
type FusionOption func(*FusionService)

// WithEngines sets the extraction engines run by Process.
func WithEngines(engines ...driven.Engine) FusionOption {
	return func(s *FusionService) {
		s.engines = append(s.engines, engines...)
	}
}

// WithLanguageDetector sets the detector used by the language stage.
func WithLanguageDetector(detector driven.LanguageDetector) FusionOption {
	return func(s *FusionService) {
		s.detector = detector
	}
}

// WithEmbeddingService enables fuzzy deduplication.
func WithEmbeddingService(svc driven.EmbeddingService) FusionOption {
	return func(s *FusionService) {
		s.embedder = svc
	}
}

// WithLLMService enables enrichment.
func WithLLMService(svc driven.LLMService) FusionOption {
	return func(s *FusionService) {
		s.llm = svc
	}
}

// WithPromptStore sets where the enrichment prompt is loaded from.
func WithPromptStore(store driven.PromptStore) FusionOption {
	return func(s *FusionService) {
		s.prompts = store
	}
}

// WithReportStore persists every analysed report.
func WithReportStore(store driven.ReportStore) FusionOption {
	return func(s *FusionService) {
		s.reports = store
	}
}

// WithEnrichmentRate limits LLM calls to r per second with the given burst.
func WithEnrichmentRate(r rate.Limit, burst int) FusionOption {
	return func(s *FusionService) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// NewFusionService creates a fusion service from a settings snapshot.
func NewFusionService(settings domain.AppSettings, opts ...FusionOption) (*FusionService, error) {
	s := &FusionService{
		settings:   settings,
		comparator: fusion.NewComparator(settings.Scoring),
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	registry := curation.NewRegistry()
	curation.RegisterDefaults(registry, s.detector)
	curator, err := curation.NewCurator(registry, stageConfig(settings))
	if err != nil {
		return nil, fmt.Errorf("create curator: %w", err)
	}
	s.curator = curator

	dedupOpts := []dedup.Option{dedup.WithThreshold(settings.Fusion.FuzzyThreshold)}
	if s.embedder != nil {
		dedupOpts = append(dedupOpts, dedup.WithEmbedder(s.embedder))
	}
	s.dedup = dedup.New(dedupOpts...)

	return s, nil
}

// stageConfig converts settings into per-stage registry config.
func stageConfig(settings domain.AppSettings) map[string]map[string]any {
	q := settings.Quality
	return map[string]map[string]any{
		curation.StageClean: {
			"preserve_paragraphs": settings.Fusion.PreserveParagraphs,
		},
		curation.StageQuality: {
			"min_length":             q.MinLength,
			"min_words":              q.MinWords,
			"min_char_diversity":     q.MinCharDiversity,
			"max_repetition_ratio":   q.MaxRepetitionRatio,
			"max_special_char_ratio": q.MaxSpecialCharRatio,
			"high_quality_score":     q.HighQualityScore,
		},
	}
}

// Engines returns the names of the configured engines.
func (s *FusionService) Engines() []string {
	names := make([]string, len(s.engines))
	for i, e := range s.engines {
		names[i] = e.Name()
	}
	return names
}

// Process runs every engine on the document at path and analyses the results.
func (s *FusionService) Process(ctx context.Context, path string) (*domain.ProcessReport, error) {
	if len(s.engines) == 0 {
		return nil, domain.ErrNoEngines
	}

	docType, err := validateDocument(path)
	if err != nil {
		return nil, err
	}

	logger.Info("processing %s (%s) with %d engines", path, docType, len(s.engines))
	extractions := s.runEngines(ctx, path, docType)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.analyse(ctx, path, docType, extractions)
}

// validateDocument checks the file exists, is within the size limit and
// has a supported extension.
func validateDocument(path string) (domain.DocumentType, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > domain.MaxDocumentSize {
		return "", fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, info.Size())
	}
	docType, err := domain.DetectDocumentType(path)
	if err != nil {
		return "", fmt.Errorf("detect document type: %w", err)
	}
	return docType, nil
}

// runEngines runs all engines concurrently. Each writes only its own slot,
// and a failing engine becomes an extraction with Error set.
func (s *FusionService) runEngines(ctx context.Context, path string, docType domain.DocumentType) []domain.RawExtraction {
	results := make([]domain.RawExtraction, len(s.engines))

	var g errgroup.Group
	for i, engine := range s.engines {
		g.Go(func() error {
			results[i] = runEngine(ctx, engine, path, docType)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runEngine(
	ctx context.Context,
	engine driven.Engine,
	path string,
	docType domain.DocumentType,
) (result domain.RawExtraction) {
	name := engine.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = domain.RawExtraction{EngineID: name, Error: fmt.Sprintf("engine panic: %v", r)}
		}
		log := logger.L().With("engine", name, "document_type", string(docType))
		if !result.IsValid() {
			log.Warn("engine failed", "error", result.Error)
		} else {
			log.Debug("engine finished", "duration", time.Since(start))
		}
	}()

	raw, err := engine.Extract(ctx, path, docType)
	switch {
	case err != nil:
		return domain.RawExtraction{EngineID: name, Error: err.Error()}
	case raw == nil:
		return domain.RawExtraction{EngineID: name, Error: "engine returned no result"}
	}

	result = *raw
	if result.EngineID == "" {
		result.EngineID = name
	}
	return result
}

// Analyse fuses extractions produced elsewhere. The document name is only
// recorded; its type is inferred from the extension when recognised.
func (s *FusionService) Analyse(
	ctx context.Context,
	document string,
	extractions []domain.RawExtraction,
) (*domain.ProcessReport, error) {
	docType, _ := domain.DetectDocumentType(document)
	return s.analyse(ctx, document, docType, extractions)
}

func (s *FusionService) analyse(
	ctx context.Context,
	document string,
	docType domain.DocumentType,
	extractions []domain.RawExtraction,
) (*domain.ProcessReport, error) {
	if len(extractions) == 0 {
		return nil, domain.ErrEmptyInput
	}

	cfg := s.settings.Fusion
	report := &domain.ProcessReport{
		ID:           s.newID(),
		Document:     document,
		DocumentType: docType,
		Engines:      make([]string, len(extractions)),
		Extractions:  extractions,
		CreatedAt:    s.now(),
	}
	for i := range extractions {
		report.Engines[i] = fusion.EngineName(i, &extractions[i])
	}

	comparison := s.comparator.Compare(extractions)
	if cfg.EnableComparison {
		logger.Section("Comparison")
		report.Comparison = comparison
	}

	if cfg.EnableEnsemble {
		logger.Section("Ensemble")
		merged, err := fusion.Merge(extractions)
		if err != nil {
			report.MergeError = err.Error()
		} else {
			report.Merged = merged
		}
	}

	opts := cfg.CurationOptions()
	if opts.Cleaning || opts.QualityCheck || opts.LanguageDetection {
		logger.Section("Curation")
		text := curationSource(report, comparison, extractions)
		report.Curation = s.curator.Curate(ctx, text, opts)
	}

	if cfg.EnableDedup {
		logger.Section("Dedup")
		report.Dedup = s.Dedupe(ctx, engineTexts(extractions), cfg.DedupMethod)
	}

	if cfg.EnableEnrichment && report.Curation != nil {
		report.Enrichment = s.enrich(ctx, report.Curation.CuratedText)
	}

	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			return report, fmt.Errorf("save report: %w", err)
		}
		logger.Debug("saved report %s", report.ID)
	}

	return report, nil
}

// curationSource picks the text to curate: the merged text when it is not
// empty, otherwise the best engine's text or page texts.
func curationSource(
	report *domain.ProcessReport,
	comparison *domain.ComparisonReport,
	extractions []domain.RawExtraction,
) string {
	if report.Merged != nil && report.Merged.CombinedText != "" {
		return report.Merged.CombinedText
	}
	if comparison.BestProcessor == nil {
		return ""
	}
	for i := range extractions {
		if fusion.EngineName(i, &extractions[i]) == comparison.BestProcessor.EngineID {
			return curation.TextForCuration(&extractions[i])
		}
	}
	return ""
}

// engineTexts returns the non-empty texts of the valid extractions.
func engineTexts(extractions []domain.RawExtraction) []string {
	texts := make([]string, 0, len(extractions))
	for i := range extractions {
		if !extractions[i].IsValid() {
			continue
		}
		if text := curation.TextForCuration(&extractions[i]); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// enrich sends the curated text to the LLM. Failures are recorded on the
// result rather than returned.
func (s *FusionService) enrich(ctx context.Context, text string) *domain.Enrichment {
	if s.llm == nil {
		logger.Warn("enrichment enabled but %v", domain.ErrLLMUnavailable)
		return nil
	}
	logger.Section("Enrichment")

	result := &domain.Enrichment{
		Model:  s.llm.ModelName(),
		Prompt: s.enrichmentPrompt(),
	}
	if text == "" {
		result.Error = domain.ErrEmptyInput.Error()
		return result
	}

	if err := s.limiter.Wait(ctx); err != nil {
		result.Error = fmt.Sprintf("rate limit: %v", err)
		return result
	}

	response, err := s.llm.Generate(ctx, result.Prompt+"\n\n"+text, driven.GenerateOptions{
		MaxTokens:   enrichmentMaxTokens,
		Temperature: enrichmentTemperature,
	})
	if err != nil {
		logger.Warn("enrichment failed: %v", err)
		result.Error = err.Error()
		return result
	}
	result.Response = response
	return result
}

// enrichmentPrompt prefers the prompt store, then settings, then the default.
func (s *FusionService) enrichmentPrompt() string {
	if s.prompts != nil {
		prompt, err := s.prompts.Load(driven.PromptEnrichment)
		if err == nil && prompt != "" {
			return prompt
		}
		if err != nil {
			logger.Debug("load enrichment prompt: %v", err)
		}
	}
	if s.settings.LLM.Prompt != "" {
		return s.settings.LLM.Prompt
	}
	return domain.DefaultEnrichmentPrompt
}

// Compare scores and ranks extractions.
func (s *FusionService) Compare(_ context.Context, extractions []domain.RawExtraction) *domain.ComparisonReport {
	return s.comparator.Compare(extractions)
}

// Merge combines extractions into an ensemble view.
func (s *FusionService) Merge(_ context.Context, extractions []domain.RawExtraction) (*domain.MergedResult, error) {
	merged, err := fusion.Merge(extractions)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return merged, nil
}

// Curate cleans, assesses and language-tags one text.
func (s *FusionService) Curate(ctx context.Context, text string, opts domain.CurationOptions) *domain.CurationRecord {
	return s.curator.Curate(ctx, text, opts)
}

// Dedupe removes duplicate texts. Fuzzy falls back to exact when no
// embedding service is configured.
func (s *FusionService) Dedupe(ctx context.Context, texts []string, method domain.DedupMethod) *domain.DedupResult {
	switch {
	case !method.IsValid():
		logger.Warn("unknown dedup method %q, using exact", method)
	case method == domain.DedupFuzzy && !s.dedup.FuzzyAvailable():
		logger.Warn("fuzzy dedup requested: %v, using exact", domain.ErrEmbeddingUnavailable)
	}
	result := s.dedup.Dedupe(ctx, texts, method)
	return &result
}
