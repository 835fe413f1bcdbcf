package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVRepository backs the uniform Store port with a single Postgres table
// (key TEXT PRIMARY KEY, value JSONB). All dashboard entities and bot state
// live here under prefixed keys.
type KVRepository struct {
	db *pgxpool.Pool
}

func NewKVRepository(db *pgxpool.Pool) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the raw JSON value for key, or nil when the key is absent.
func (r *KVRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := r.db.QueryRow(ctx, "SELECT value FROM kv_store WHERE key=$1", key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q: marshal: %w", key, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()
	`, key, data)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM kv_store WHERE key=$1", key)
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// GetByPrefix returns the values of all keys starting with prefix, in key
// order so enumeration is deterministic.
func (r *KVRepository) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	rows, err := r.db.Query(ctx,
		"SELECT value FROM kv_store WHERE key LIKE $1 ESCAPE '\\' ORDER BY key",
		escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("kv prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	values := []json.RawMessage{}
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("kv prefix %q: %w", prefix, err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

// IncrCampaignCounters bumps impressions and conversions in a single UPDATE,
// so concurrent referrals never lose an increment.
func (r *KVRepository) IncrCampaignCounters(ctx context.Context, key string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE kv_store SET value = jsonb_set(
			jsonb_set(value, '{impressions}', to_jsonb(COALESCE((value->>'impressions')::bigint, 0) + 1)),
			'{conversions}', to_jsonb(COALESCE((value->>'conversions')::bigint, 0) + 1)
		), updated_at = NOW()
		WHERE key = $1
	`, key)
	if err != nil {
		return false, fmt.Errorf("kv incr %q: %w", key, err)
	}
	return tag.RowsAffected() > 0, nil
}

// escapeLike escapes LIKE wildcards so prefixes such as "user_campaign:"
// match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
