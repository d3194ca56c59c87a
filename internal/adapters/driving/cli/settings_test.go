package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/services"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     2,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Valid choice within range",
			input:      "1",
			maxVal:     2,
			defaultVal: 2,
			expected:   1,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     2,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "9",
			maxVal:     2,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Non-numeric input returns default",
			input:      "ollama",
			maxVal:     2,
			defaultVal: 1,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.AIProvider
		wantErr bool
	}{
		{"ollama", domain.AIProviderOllama, false},
		{" Ollama ", domain.AIProviderOllama, false},
		{"none", domain.AIProviderNone, false},
		{"", domain.AIProviderNone, false},
		{"openai", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseProvider(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsShowCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "show", "--format", "json")

	require.NoError(t, err)
	settings := decodeOutput[domain.AppSettings](t, out)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Backend)
	assert.True(t, settings.Fusion.EnableCleaning)
	assert.Equal(t, domain.DedupExact, settings.Fusion.DedupMethod)
}

func TestSettingsCmd_DefaultsToShowText(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "--format", "text")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "[fusion]")
	assert.Contains(t, out, "[engines]")
	assert.Contains(t, out, "none configured")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsEmbeddingCmd_Flags(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "settings", "embedding", "--provider", "ollama", "--skip-validate")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding provider configured: Ollama (local)")

	settings, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, services.DefaultOllamaURL, settings.Embedding.BaseURL)
}

func TestSettingsEmbeddingCmd_Disable(t *testing.T) {
	ts := setupTestServices(t)
	require.NoError(t, ts.settings.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	out, err := execute(t, "settings", "embedding", "--provider", "none")

	require.NoError(t, err)
	assert.Contains(t, out, "Disabled")
	assert.NotContains(t, out, "Validating")

	settings, err := ts.settings.Get()
	require.NoError(t, err)
	assert.False(t, settings.Embedding.IsConfigured())
}

func TestSettingsEmbeddingCmd_UnknownProvider(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "embedding", "--provider", "openai")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "openai"`)
}

func TestSettingsLLMCmd_Interactive(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("\n\nhttp://gpu:11434\n"))

	out, err := execute(t, "settings", "llm")

	require.NoError(t, err)
	assert.Contains(t, out, "Select LLM Provider")
	assert.Contains(t, out, "Validating configuration... OK")

	settings, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.2", settings.LLM.Model)
	assert.Equal(t, "http://gpu:11434", settings.LLM.BaseURL)
}

func TestSettingsLLMCmd_InteractiveDisable(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("1\n"))

	_, err := execute(t, "settings", "llm")

	require.NoError(t, err)
	settings, err := ts.settings.Get()
	require.NoError(t, err)
	assert.False(t, settings.LLM.IsConfigured())
}

func TestSettingsValidateCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "settings", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid.")

	settings, err := ts.settings.Get()
	require.NoError(t, err)
	settings.Fusion.EnableEnrichment = true
	require.NoError(t, ts.settings.Save(settings))

	_, err = execute(t, "settings", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrichment requires an LLM provider")
}

func TestRenderSettings_ShowsValidationWarning(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Engines = []domain.EngineSettings{{Name: "pdftext", Command: "pdftotext", Args: []string{"-layout"}}}
	buf := new(bytes.Buffer)

	renderSettings(buf, &s, assert.AnError)

	assert.Contains(t, buf.String(), "pdftotext -layout")
	assert.Contains(t, buf.String(), "Warning: "+assert.AnError.Error())
}

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"", ""},
		{"postgres://app:secret@db:5432/fusion?sslmode=disable", "postgres://app:xxxxx@db:5432/fusion?sslmode=disable"},
		{"postgres://db/fusion", "postgres://db/fusion"},
		{"host=db password=secret dbname=fusion", "host=db password=xxxxx dbname=fusion"},
		{"password='two words' host=db", "password=xxxxx host=db"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, redactDSN(tt.dsn))
		})
	}
}
