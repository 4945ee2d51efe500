// Package prompt builds the translation instruction shared by every provider.
package prompt

import "fmt"

const systemTemplate = "You are a professional translator. Translate the given text to %s accurately and naturally. " +
	"Return ONLY the translation without any explanations, comments, or additional text."

// Prompt is a system/user instruction pair.
type Prompt struct {
	System string
	User   string
}

// Build returns the instruction asking for a literal translation of text into languageName.
func Build(text, languageName string) Prompt {
	return Prompt{
		System: fmt.Sprintf(systemTemplate, languageName),
		User:   text,
	}
}

// Combined folds the pair into one string for APIs without a system role.
func (p Prompt) Combined() string {
	return p.System + "\n\nText to translate: " + p.User
}
