package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// SettingsRepo is the durable key-value store behind ports.SettingsRepository.
type SettingsRepo struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db, sq: sq.StatementBuilder}
}

// Get returns "" with a nil error when key is not stored.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	sqlStr, args, err := r.sq.Select("value").From("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", err
	}
	var v string
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	sqlStr, args, err := r.sq.Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
