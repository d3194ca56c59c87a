package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return a sensible default
	// or an error, depending on whether the prompt is known.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptEnrichment is prepended to curated text before it is sent to the LLM.
	// The template has no format placeholders.
	PromptEnrichment = "enrichment"
)
