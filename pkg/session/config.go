package session

import "errors"

// Response modalities supported by the Live API.
const (
	ModalityText  = "TEXT"
	ModalityAudio = "AUDIO"
)

// Default model and voice for the live session.
const (
	DefaultModel = "models/gemini-2.0-flash-exp"
	DefaultVoice = "Puck"
)

// Config holds all tunable parameters for a live session.
type Config struct {
	// APIKey is the Google API key. Required.
	APIKey string

	// Model is the Live API model name (default: gemini-2.0-flash-exp).
	Model string

	// ResponseModality selects TEXT or AUDIO output (default: AUDIO).
	ResponseModality string

	// Voice selects the prebuilt voice for audio output (default: Puck).
	Voice string

	// SystemPrompt is the system instruction sent at setup.
	SystemPrompt string

	// EnableSearch declares the general-purpose Google Search capability
	// alongside the function declarations.
	EnableSearch bool

	// Debug enables verbose logging of session traffic.
	Debug bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:            DefaultModel,
		ResponseModality: ModalityAudio,
		Voice:            DefaultVoice,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.ResponseModality != "" && c.ResponseModality != ModalityText && c.ResponseModality != ModalityAudio {
		return errors.New("session: response modality must be TEXT or AUDIO")
	}
	return nil
}

// WithSystemPrompt returns a copy with the system prompt set.
func (c Config) WithSystemPrompt(prompt string) Config {
	c.SystemPrompt = prompt
	return c
}

// WithModel returns a copy with the model set.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithSearch returns a copy with the Google Search capability flag set.
func (c Config) WithSearch(enabled bool) Config {
	c.EnableSearch = enabled
	return c
}

// WithDebug returns a copy with debug enabled.
func (c Config) WithDebug(debug bool) Config {
	c.Debug = debug
	return c
}
