package factory

import (
	"fmt"

	"github.com/dreamdive/dreamdive/internal/config"
	"github.com/dreamdive/dreamdive/internal/interpreter/gemini"
)

// NewInterpreter returns the configured Gemini-backed interpreter.
// The API key is required; there is no offline fallback.
func NewInterpreter(cfg *config.Config) (*gemini.Provider, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("DREAMDIVE_GEMINI_API_KEY is required")
	}
	return gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout), nil
}
