// Package filestore implements the plan store on the local filesystem.
// Each project is a directory under the Woolly home, one per mode:
//
//	<home>/<mode>/<name>/plan.json
//
// Plans are read and written whole. Writes are atomic (temp file and
// rename) and optionally conditioned on the revision the caller read.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/woolly-dev/woolly/internal/codec"
	"github.com/woolly-dev/woolly/pkg/types"
)

// PlanFileName is the fixed name of a project's plan document.
const PlanFileName = "plan.json"

// Compile-time interface check.
var _ types.Backend = (*Store)(nil)

// Store implements types.Backend on plan.json files.
type Store struct {
	mu       sync.Mutex
	attached bool
	root     string
	logger   *slog.Logger
}

// NewStore creates a detached store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Attach roots the store at config.HomeDir, creating it if needed.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	root := config.HomeDir
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create home dir: %w", err)
	}
	s.root = root
	s.attached = true
	return nil
}

// Detach releases the store. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = false
	return nil
}

// PlanPath returns the location of the plan file of ref.
func (s *Store) PlanPath(ref types.ProjectRef) string {
	return filepath.Join(s.root, string(ref.Mode), ref.Name, PlanFileName)
}

// GetPlan reads the plan of ref and its revision.
// Returns ErrNotFound if the project has no plan file.
func (s *Store) GetPlan(ctx context.Context, ref types.ProjectRef) (*types.Plan, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if err := ref.Validate(); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return nil, "", types.ErrDetached
	}

	data, err := s.readLocked(ref)
	if err != nil {
		return nil, "", err
	}
	plan, err := codec.Unmarshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", ref, err)
	}
	return plan, codec.Revision(data), nil
}

// PutPlan overwrites the plan of ref, creating the project directory if
// needed. When ifRevision is non-empty and differs from the stored
// revision (or nothing is stored) ErrConflict is returned.
func (s *Store) PutPlan(ctx context.Context, ref types.ProjectRef, plan *types.Plan, ifRevision string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ref.Validate(); err != nil {
		return "", err
	}
	data, err := codec.Marshal(plan)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return "", types.ErrDetached
	}

	if ifRevision != "" {
		current, err := s.readLocked(ref)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return "", err
		}
		if err != nil || codec.Revision(current) != ifRevision {
			s.logger.Info("plan write rejected", "project", ref.String(), "if_revision", ifRevision)
			return "", fmt.Errorf("put %s: %w", ref, types.ErrConflict)
		}
	}

	path := s.PlanPath(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write %s: %w", ref, err)
	}
	rev := codec.Revision(data)
	s.logger.Debug("plan written", "project", ref.String(), "revision", rev)
	return rev, nil
}

// ListProjects returns the sorted project directory names of mode.
func (s *Store) ListProjects(ctx context.Context, mode types.Mode) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := types.ParseMode(string(mode)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return nil, types.ErrDetached
	}

	entries, err := os.ReadDir(filepath.Join(s.root, string(mode)))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s projects: %w", mode, err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() && types.ValidName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) readLocked(ref types.ProjectRef) ([]byte, error) {
	data, err := os.ReadFile(s.PlanPath(ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ref, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return data, nil
}
