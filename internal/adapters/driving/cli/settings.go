package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

var (
	providerFlag     string
	modelFlag        string
	baseURLFlag      string
	skipValidateFlag bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure pipeline settings, AI providers and engines.

Settings live in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used by fuzzy deduplication.

Without --provider the command prompts for each value.`,
	RunE: runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM provider used for optional enrichment of curated text.

Without --provider the command prompts for each value.`,
	RunE: runSettingsLLM,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings for consistency",
	RunE:  runSettingsValidate,
}

func init() {
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsLLMCmd} {
		c.Flags().StringVar(&providerFlag, "provider", "", "provider: ollama, or none to disable")
		c.Flags().StringVar(&modelFlag, "model", "", "model name (default depends on provider)")
		c.Flags().StringVar(&baseURLFlag, "base-url", "", "API endpoint")
		c.Flags().BoolVar(&skipValidateFlag, "skip-validate", false, "do not ping the provider")
	}

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	validationErr := settingsService.Validate()

	shown := *settings
	shown.Storage.DSN = redactDSN(settings.Storage.DSN)
	settings = &shown

	return output(cmd, settings, func(w io.Writer) {
		renderSettings(w, settings, validationErr)
	})
}

var dsnPassword = regexp.MustCompile(`(password\s*=\s*)('[^']*'|\S+)`)

// redactDSN hides the password of a URL or keyword/value connection string.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}xxxxx")
}

func renderSettings(w io.Writer, s *domain.AppSettings, validationErr error) {
	fmt.Fprintln(w, styles.title.Render("Current Settings"))

	heading(w, "[fusion]")
	field(w, "Cleaning", yesNo(s.Fusion.EnableCleaning))
	field(w, "Preserve paragraphs", yesNo(s.Fusion.PreserveParagraphs))
	field(w, "Quality check", yesNo(s.Fusion.EnableQualityCheck))
	field(w, "Language detection", yesNo(s.Fusion.EnableLanguageDetection))
	field(w, "Ensemble", yesNo(s.Fusion.EnableEnsemble))
	field(w, "Comparison", yesNo(s.Fusion.EnableComparison))
	field(w, "Dedup", fmt.Sprintf("%s (%s, threshold %.2f)",
		yesNo(s.Fusion.EnableDedup), s.Fusion.DedupMethod, s.Fusion.FuzzyThreshold))
	field(w, "Enrichment", yesNo(s.Fusion.EnableEnrichment))

	heading(w, "[scoring]")
	field(w, "Text length divisor", s.Scoring.TextLengthDivisor)
	field(w, "Table bonus", s.Scoring.TableBonus)
	field(w, "Metadata bonus", s.Scoring.MetadataBonus)
	field(w, "Error penalty", s.Scoring.ErrorPenalty)

	heading(w, "[quality]")
	field(w, "Min length", s.Quality.MinLength)
	field(w, "Min words", s.Quality.MinWords)
	field(w, "High quality score", s.Quality.HighQualityScore)

	heading(w, "[language]")
	field(w, "Enabled", yesNo(s.Language.Enabled))
	langs := "all"
	if len(s.Language.Languages) > 0 {
		langs = strings.Join(s.Language.Languages, ", ")
	}
	field(w, "Languages", langs)

	heading(w, "[embedding]")
	renderProvider(w, s.Embedding.Provider, s.Embedding.Model, s.Embedding.BaseURL)

	heading(w, "[llm]")
	renderProvider(w, s.LLM.Provider, s.LLM.Model, s.LLM.BaseURL)

	heading(w, "[storage]")
	field(w, "Backend", s.Storage.Backend)
	if s.Storage.Path != "" {
		field(w, "Path", s.Storage.Path)
	}
	if s.Storage.DSN != "" {
		field(w, "DSN", s.Storage.DSN)
	}

	heading(w, "[engines]")
	if len(s.Engines) == 0 {
		fmt.Fprintln(w, "  "+styles.muted.Render("none configured"))
	}
	for _, e := range s.Engines {
		field(w, e.Name, strings.TrimSpace(e.Command+" "+strings.Join(e.Args, " ")))
	}

	fmt.Fprintln(w)
	if validationErr != nil {
		fmt.Fprintln(w, styles.warning.Render("Warning: "+validationErr.Error()))
	} else {
		fmt.Fprintln(w, styles.success.Render("Configuration is valid."))
	}
}

func renderProvider(w io.Writer, provider domain.AIProvider, model, baseURL string) {
	field(w, "Provider", provider.Description())
	if !provider.IsValid() {
		return
	}
	field(w, "Model", model)
	if provider.IsLocal() {
		field(w, "Base URL", baseURL)
	}
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	provider, model, baseURL, err := providerInput(cmd, "Embedding", domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, baseURL); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}
	if provider.IsValid() && !skipValidateFlag {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateEmbeddingConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Embedding provider configured: %s\n", provider.Description())
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	provider, model, baseURL, err := providerInput(cmd, "LLM", domain.DefaultLLMModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetLLMProvider(provider, model, baseURL); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	if provider.IsValid() && !skipValidateFlag {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateLLMConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("LLM provider configured: %s\n", provider.Description())
	return nil
}

// providerInput takes the provider settings from flags, or prompts for
// them when --provider is not given.
func providerInput(cmd *cobra.Command, kind string, defaults map[domain.AIProvider]string) (domain.AIProvider, string, string, error) {
	if cmd.Flags().Changed("provider") {
		provider, err := parseProvider(providerFlag)
		return provider, modelFlag, baseURLFlag, err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	providers := domain.AllAIProviders()

	cmd.Printf("Select %s Provider\n", kind)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [2]: ")
	provider := providers[parseChoice(readLine(reader), len(providers), 2)-1]
	if !provider.IsValid() {
		return provider, "", "", nil
	}

	defaultModel := defaults[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Print("Enter base URL [default]: ")
	baseURL := readLine(reader)
	return provider, model, baseURL, nil
}

func parseProvider(s string) (domain.AIProvider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return domain.AIProviderNone, nil
	}
	provider := domain.AIProvider(strings.ToLower(strings.TrimSpace(s)))
	if !provider.IsValid() {
		return "", fmt.Errorf("unknown provider %q", s)
	}
	return provider, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
