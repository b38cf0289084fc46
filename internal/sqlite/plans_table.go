package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/woolly-dev/woolly/internal/codec"
	"github.com/woolly-dev/woolly/pkg/types"
)

// GetPlan reads the plan of ref and its revision.
// Returns ErrNotFound if no row exists.
func (b *Backend) GetPlan(ctx context.Context, ref types.ProjectRef) (*types.Plan, string, error) {
	if err := ref.Validate(); err != nil {
		return nil, "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, "", types.ErrDetached
	}

	var document, revision string
	err := b.db.QueryRowContext(ctx,
		"SELECT document, revision FROM plans WHERE mode = ? AND name = ?",
		string(ref.Mode), ref.Name,
	).Scan(&document, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s: %w", ref, types.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting plan %s: %w", ref, err)
	}

	plan, err := codec.Unmarshal([]byte(document))
	if err != nil {
		return nil, "", fmt.Errorf("decoding plan %s: %w", ref, err)
	}
	return plan, revision, nil
}

// PutPlan upserts the plan of ref inside a transaction. When ifRevision
// is non-empty the stored revision must match or ErrConflict is returned.
func (b *Backend) PutPlan(ctx context.Context, ref types.ProjectRef, plan *types.Plan, ifRevision string) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	data, err := codec.Marshal(plan)
	if err != nil {
		return "", err
	}
	revision := codec.Revision(data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return "", types.ErrDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if ifRevision != "" {
		var current string
		err := tx.QueryRowContext(ctx,
			"SELECT revision FROM plans WHERE mode = ? AND name = ?",
			string(ref.Mode), ref.Name,
		).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("checking revision: %w", err)
		}
		if current != ifRevision {
			b.logger.Info("plan write rejected", "project", ref.String(), "if_revision", ifRevision)
			return "", fmt.Errorf("put %s: %w", ref, types.ErrConflict)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (mode, name, document, revision, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(mode, name) DO UPDATE SET document = excluded.document,
		   revision = excluded.revision, updated_at = excluded.updated_at`,
		string(ref.Mode), ref.Name, string(data), revision, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("persisting plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing plan: %w", err)
	}
	b.logger.Debug("plan written", "project", ref.String(), "revision", revision)
	return revision, nil
}

// ListProjects returns the sorted names of projects of mode that have a
// plan.
func (b *Backend) ListProjects(ctx context.Context, mode types.Mode) ([]string, error) {
	if _, err := types.ParseMode(string(mode)); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}

	rows, err := b.db.QueryContext(ctx, "SELECT name FROM plans WHERE mode = ? ORDER BY name", string(mode))
	if err != nil {
		return nil, fmt.Errorf("listing %s projects: %w", mode, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning project name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s projects: %w", mode, err)
	}
	return names, nil
}
