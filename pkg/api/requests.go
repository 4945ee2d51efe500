package api

// TranslateRequest is the body of POST /v1/translate. Empty optional fields
// fall back to the stored settings.
type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"target_language,omitempty"`
	Provider       string `json:"provider,omitempty"`
}

// SettingsRequest is the body of PUT /v1/settings.
type SettingsRequest struct {
	TargetLanguage string                 `json:"target_language" binding:"required"`
	AutoTranslate  *bool                  `json:"auto_translate,omitempty"`
	Provider       string                 `json:"provider" binding:"required,provider_id"`
	Credentials    map[string]Credentials `json:"credentials,omitempty" binding:"omitempty,dive,keys,provider_id,endkeys"`
}

type Credentials struct {
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" binding:"omitempty,url"`
	Model   string `json:"model,omitempty"`
}
