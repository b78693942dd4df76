package repository

import (
	"context"
	"database/sql"
	"errors"

	"poststudio/pkg/logger"
)

// PostgresSlot keeps the snapshot in one row of studio_snapshots.
type PostgresSlot struct {
	DB  *sql.DB
	Key string
}

func NewPostgresSlot(db *sql.DB, key string) *PostgresSlot {
	return &PostgresSlot{DB: db, Key: key}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (s *PostgresSlot) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS studio_snapshots (
		key TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		logger.Sugar.Errorf("Failed to create studio_snapshots table: %v", err)
	}
	return err
}

func (s *PostgresSlot) Load(ctx context.Context) ([]byte, error) {
	var content string
	err := s.DB.QueryRowContext(ctx, "SELECT content FROM studio_snapshots WHERE key = $1", s.Key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to load snapshot %s: %v", s.Key, err)
		return nil, err
	}
	return []byte(content), nil
}

func (s *PostgresSlot) Save(ctx context.Context, data []byte) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO studio_snapshots (key, content, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET content = $2, updated_at = NOW()`, s.Key, string(data))
	if err != nil {
		logger.Sugar.Errorf("Failed to save snapshot %s: %v", s.Key, err)
	}
	return err
}

func (s *PostgresSlot) Delete(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM studio_snapshots WHERE key = $1", s.Key)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete snapshot %s: %v", s.Key, err)
	}
	return err
}
