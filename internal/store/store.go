// Package store is the Postgres-backed implementation of the queue table
// (C11): poll for unprocessed concepts, acknowledge one as processed. Poll
// retries transient connection errors with a bounded backoff rather than
// crashing the worker loop.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"github.com/contentplatform/mediaworker/internal/domain"
)

type PostgresStore struct {
	db *sql.DB
}

func Open(dbConnection string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dbConnection)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Poll fetches every unprocessed concept. A transient connection error is
// retried with a bounded constant backoff before giving up.
func (s *PostgresStore) Poll(ctx context.Context) ([]domain.Concept, error) {
	var concepts []domain.Concept

	op := func() error {
		rows, err := s.db.QueryContext(ctx, `SELECT id, type, processed FROM media_concepts WHERE processed = false`)
		if err != nil {
			return err
		}
		defer rows.Close()

		concepts = nil
		for rows.Next() {
			var c domain.Concept
			if err := rows.Scan(&c.ID, &c.Type, &c.Processed); err != nil {
				return err
			}
			concepts = append(concepts, c)
		}
		return rows.Err()
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(5*time.Second), 3)
	bo = backoff.WithContext(bo, ctx)

	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("poll concepts: %w", err)
	}

	return concepts, nil
}

// Ack marks a concept as processed. Never retried: a failed ack must
// surface immediately so the concept is reconsidered on the next poll
// rather than silently dropped.
func (s *PostgresStore) Ack(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE media_concepts SET processed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ack concept %s: %w", id, err)
	}
	return nil
}
