package api

type TranslateResponse struct {
	Translation    string `json:"translation"`
	Provider       string `json:"provider"`
	TargetLanguage string `json:"target_language"`
}

type Model struct {
	ID     string `json:"id"`
	Loaded bool   `json:"loaded"`
}

type ModelsResponse struct {
	Models []Model `json:"models"`
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type LanguagesResponse struct {
	Languages []Language `json:"languages"`
}

type Settings struct {
	TargetLanguage string                 `json:"target_language" yaml:"target_language"`
	AutoTranslate  bool                   `json:"auto_translate" yaml:"auto_translate"`
	Provider       string                 `json:"provider" yaml:"provider"`
	Credentials    map[string]Credentials `json:"credentials" yaml:"credentials"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}
