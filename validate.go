package serline

import "fmt"

// MaxPromptLen is the largest prompt the engine accepts, in bytes. The
// request line is ASCII-oriented and the gateway buffers it whole.
const MaxPromptLen = 256

// ValidatePrompt checks universal constraints on a prompt before encoding.
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return fmt.Errorf("empty prompt: %w", ErrValidation)
	}
	if len(prompt) > MaxPromptLen {
		return fmt.Errorf("prompt exceeds %d bytes, got %d: %w", MaxPromptLen, len(prompt), ErrValidation)
	}
	return nil
}
