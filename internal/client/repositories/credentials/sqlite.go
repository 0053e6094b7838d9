package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/dbx"
)

const (
	keyToken   = "token"
	keyUser    = "user"
	keySavedAt = "saved_at"
)

// SQLiteRepository keeps the credential as rows of the key/value metadata
// table created by the client migrations.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Credential, error) {
	token, err := get(ctx, r.db, keyToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	c := &Credential{Token: string(token)}

	rawUser, err := get(ctx, r.db, keyUser)
	if err != nil {
		return nil, err
	}
	if len(rawUser) > 0 {
		if err := json.Unmarshal(rawUser, &c.User); err != nil {
			return nil, fmt.Errorf("decode stored user: %w", err)
		}
	}

	rawSaved, err := get(ctx, r.db, keySavedAt)
	if err != nil {
		return nil, err
	}
	if len(rawSaved) > 0 {
		if c.SavedAt, err = time.Parse(time.RFC3339Nano, string(rawSaved)); err != nil {
			return nil, fmt.Errorf("decode saved_at: %w", err)
		}
	}
	return c, nil
}

// Save replaces the stored credential in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, c Credential) error {
	if c.Token == "" {
		return errors.New("refusing to store an empty token")
	}
	user, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now()
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyToken, []byte(c.Token)); err != nil {
			return err
		}
		if err := set(ctx, tx, keyUser, user); err != nil {
			return err
		}
		return set(ctx, tx, keySavedAt, []byte(c.SavedAt.UTC().Format(time.RFC3339Nano)))
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (?, ?, ?)`, keyToken, keyUser, keySavedAt)
	if err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

func get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
var _ Repository = (*MemoryRepository)(nil)
