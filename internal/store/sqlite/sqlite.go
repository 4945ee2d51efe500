package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/internal/store/model"
)

const (
	selectSettings = `SELECT key, value, updated_at FROM settings ORDER BY key`
	clearSettings  = `DELETE FROM settings`
	insertSetting  = `INSERT INTO settings (key, value, updated_at) VALUES (:key, :value, :updated_at)`
)

// Repository keeps the flat settings keys one row per key.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Get(ctx context.Context) (*store.Settings, error) {
	var rows []model.SettingEntry
	if err := r.db.SelectContext(ctx, &rows, selectSettings); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	kv := make(map[string]string, len(rows))
	for _, row := range rows {
		kv[row.Key] = row.Value
	}
	return store.Decode(kv)
}

// Save swaps the whole key set in one transaction; a reader sees either the
// previous settings or the new ones.
func (r *Repository) Save(ctx context.Context, s *store.Settings) error {
	kv := store.Encode(s)
	stamp := r.now().UTC()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, clearSettings); err != nil {
			return err
		}
		stmt, err := tx.PrepareNamedContext(ctx, insertSetting)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for k, v := range kv {
			if _, err := stmt.ExecContext(ctx, model.SettingEntry{Key: k, Value: v, UpdatedAt: stamp}); err != nil {
				return fmt.Errorf("write %s: %w", k, err)
			}
		}
		return nil
	})
}

func (r *Repository) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

var _ store.SettingsRepository = (*Repository)(nil)
