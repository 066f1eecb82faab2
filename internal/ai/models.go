package ai

import "time"

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "anthropic" | "openai"
	APIKey   string
	Model    string

	// BaseURL overrides the provider endpoint, e.g. for an OpenAI-compatible
	// gateway. Empty uses the public API.
	BaseURL string

	// Timeout bounds a single API call. Zero means 60 seconds.
	Timeout time.Duration
}

// PromptConfig parameterizes the summarization instruction.
type PromptConfig struct {
	// Language is the language the summary is written in.
	Language string

	// Lines is the target summary length in lines.
	Lines int

	// Subject describes the domain an article must concern to be
	// summarized, phrased to follow "related to", e.g. "a disaster".
	Subject string

	// Sentinel is the exact answer the model gives for articles outside
	// the subject domain.
	Sentinel string
}

// DefaultPromptConfig returns the Korean, three-line, disaster-only prompt.
func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		Language: "Korean",
		Lines:    3,
		Subject:  "a disaster",
		Sentinel: "-1",
	}
}

// withDefaults fills zero-valued fields from DefaultPromptConfig.
func (c PromptConfig) withDefaults() PromptConfig {
	d := DefaultPromptConfig()
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.Lines <= 0 {
		c.Lines = d.Lines
	}
	if c.Subject == "" {
		c.Subject = d.Subject
	}
	if c.Sentinel == "" {
		c.Sentinel = d.Sentinel
	}
	return c
}

const defaultAPITimeout = 60 * time.Second
