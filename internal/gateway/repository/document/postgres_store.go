package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// PostgresStore keeps documents in a single table. The caller opens db with
// the pgx stdlib driver.
type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS preview_documents (
    project_id TEXT NOT NULL,
    handle TEXT NOT NULL,
    content BYTEA NOT NULL DEFAULT ''::bytea,
    size BIGINT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    PRIMARY KEY (project_id, handle)
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Put(ctx context.Context, projectID, handle string, doc []byte) error {
	projectID, handle, err := normalizeKey(projectID, handle)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if doc == nil {
		doc = []byte{}
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO preview_documents (project_id, handle, content, size, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (project_id, handle)
DO UPDATE SET content=EXCLUDED.content, size=EXCLUDED.size
`, projectID, handle, doc, int64(len(doc)), time.Now())
	return err
}

func (s *PostgresStore) Get(ctx context.Context, projectID, handle string) ([]byte, error) {
	projectID, handle, err := normalizeKey(projectID, handle)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var content []byte
	err = s.db.QueryRowContext(ctx, `SELECT content FROM preview_documents WHERE project_id=$1 AND handle=$2`, projectID, handle).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return content, err
}

func (s *PostgresStore) List(ctx context.Context, projectID string) ([]string, error) {
	projectID, err := normalizeProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT handle FROM preview_documents WHERE project_id=$1 ORDER BY handle`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	handles := []string{}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, projectID, handle string) error {
	projectID, handle, err := normalizeKey(projectID, handle)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM preview_documents WHERE project_id=$1 AND handle=$2`, projectID, handle)
	return err
}

// GetURL returns "" because rows are only reachable through the gateway.
func (s *PostgresStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}
