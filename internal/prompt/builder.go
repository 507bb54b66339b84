// Package prompt builds the instruction prompts sent to the chat model.
package prompt

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/indictrans/internal/language"
)

const (
	// SystemPreamble is the system-role message preceding every prompt
	SystemPreamble = "You are a helpful assistant."

	// Temperature biases the model toward literal output
	Temperature float32 = 0.2
)

// ResolveInstruction returns the language and script description for lang
func ResolveInstruction(lang language.Language) string {
	return lang.Instruction()
}

// Build composes the user prompt for one target language. The negative
// constraints are the only thing keeping the reply format clean, as the
// reply is never parsed.
func Build(instruction, text string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Task: Translate the following English text into %s.\n", instruction))
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Preserve meaning, tone, and politeness.\n")
	sb.WriteString(fmt.Sprintf("- Use native, natural phrasing in %s.\n", instruction))
	sb.WriteString("- Do not include any explanations, notes, language names, or quotes.\n")
	sb.WriteString("- Return only the translation text.\n\n")
	sb.WriteString("English text:\n")
	sb.WriteString(strings.TrimSpace(text))

	return sb.String()
}

// ForLanguage is Build with the instruction resolved from lang
func ForLanguage(lang language.Language, text string) string {
	return Build(ResolveInstruction(lang), text)
}
