package model

import "time"

// SettingEntry is a row of the settings table. Key is one of the flat
// extension keys such as llmProvider or ollamaUrl.
type SettingEntry struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
