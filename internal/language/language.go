// Package language maps short language codes to the English names used inside prompts.
package language

import (
	"sort"
	"strings"
)

// Language is a supported target language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var names = map[string]string{
	"en": "English",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
}

// Resolve returns the prompt name for code. Unknown codes come back unchanged so
// a model can still be asked for a language this table does not list.
func Resolve(code string) string {
	if name, ok := names[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// Supported lists the known languages ordered by code.
func Supported() []Language {
	out := make([]Language, 0, len(names))
	for code, name := range names {
		out = append(out, Language{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
