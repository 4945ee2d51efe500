package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nulzo/llm-translate/internal/provider"
)

// ErrNotFound is returned by Get when nothing has been saved yet.
var ErrNotFound = errors.New("settings not found")

// Settings is the persisted state of the browser extension's popup.
type Settings struct {
	TargetLanguage string                 `json:"target_language" yaml:"target_language"`
	AutoTranslate  bool                   `json:"auto_translate" yaml:"auto_translate"`
	Provider       provider.ID            `json:"provider" yaml:"provider"`
	Credentials    provider.CredentialSet `json:"credentials" yaml:"credentials"`
}

// SettingsRepository is the contract every backend implements.
type SettingsRepository interface {
	// Get returns a snapshot of the stored settings or ErrNotFound.
	Get(ctx context.Context) (*Settings, error)
	// Save replaces the stored settings.
	Save(ctx context.Context, s *Settings) error

	Close() error
}

// Validate checks a snapshot before it is stored.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.TargetLanguage) == "" {
		return errors.New("target language is required")
	}
	if !s.Provider.Valid() {
		return fmt.Errorf("unknown provider %q", s.Provider)
	}
	for id := range s.Credentials {
		if !id.Valid() {
			return fmt.Errorf("credentials for unknown provider %q", id)
		}
	}
	return nil
}

// Clone returns a deep copy so callers never share the credential map.
func (s *Settings) Clone() *Settings {
	out := *s
	out.Credentials = make(provider.CredentialSet, len(s.Credentials))
	for id, c := range s.Credentials {
		out.Credentials[id] = c
	}
	return &out
}

// Flat keys as the extension stores them.
const (
	KeyTargetLanguage = "targetLanguage"
	KeyAutoTranslate  = "autoTranslate"
	KeyProvider       = "llmProvider"
)

var keyPrefixes = map[provider.ID]string{
	provider.OpenAI:   "openai",
	provider.Claude:   "claude",
	provider.Gemini:   "gemini",
	provider.Ollama:   "ollama",
	provider.LMStudio: "lmStudio",
}

func credentialKeys(id provider.ID) (apiKey, url, model string) {
	p := keyPrefixes[id]
	return p + "ApiKey", p + "Url", p + "Model"
}

// Encode flattens settings into key/value pairs. Empty credential fields are
// omitted.
func Encode(s *Settings) map[string]string {
	out := map[string]string{
		KeyTargetLanguage: s.TargetLanguage,
		KeyAutoTranslate:  strconv.FormatBool(s.AutoTranslate),
		KeyProvider:       string(s.Provider),
	}
	for id, c := range s.Credentials {
		if _, ok := keyPrefixes[id]; !ok {
			continue
		}
		kKey, kURL, kModel := credentialKeys(id)
		if c.APIKey != "" {
			out[kKey] = c.APIKey
		}
		if c.BaseURL != "" {
			out[kURL] = c.BaseURL
		}
		if c.Model != "" {
			out[kModel] = c.Model
		}
	}
	return out
}

// Decode is the inverse of Encode. An empty map yields ErrNotFound.
func Decode(kv map[string]string) (*Settings, error) {
	if len(kv) == 0 {
		return nil, ErrNotFound
	}

	s := &Settings{
		TargetLanguage: kv[KeyTargetLanguage],
		Provider:       provider.ID(kv[KeyProvider]),
		AutoTranslate:  true,
		Credentials:    make(provider.CredentialSet),
	}
	// Missing means enabled, matching the popup.
	if v, ok := kv[KeyAutoTranslate]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", KeyAutoTranslate, err)
		}
		s.AutoTranslate = b
	}

	for _, id := range provider.IDs() {
		kKey, kURL, kModel := credentialKeys(id)
		c := provider.Credentials{APIKey: kv[kKey], BaseURL: kv[kURL], Model: kv[kModel]}
		if c != (provider.Credentials{}) {
			s.Credentials[id] = c
		}
	}
	return s, nil
}

// Seed stores defaults when the repository is empty and returns whatever is
// stored afterwards.
func Seed(ctx context.Context, repo SettingsRepository, defaults *Settings) (*Settings, bool, error) {
	current, err := repo.Get(ctx)
	if err == nil {
		return current, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if err := defaults.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid default settings: %w", err)
	}
	if err := repo.Save(ctx, defaults); err != nil {
		return nil, false, err
	}
	return defaults.Clone(), true, nil
}
