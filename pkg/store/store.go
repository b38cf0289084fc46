// Package store provides the public factory for woolly plan stores while
// keeping the backend implementations internal.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/woolly-dev/woolly/internal/client"
	"github.com/woolly-dev/woolly/internal/filestore"
	"github.com/woolly-dev/woolly/internal/sqlite"
	"github.com/woolly-dev/woolly/pkg/types"
)

// New returns a detached backend for config.Backend.
func New(config types.Config, logger *slog.Logger) (types.Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(logger), nil
	case types.BackendHTTP:
		return client.New(logger), nil
	default:
		return filestore.NewStore(logger), nil
	}
}

// Open creates the backend for config and attaches it.
//
// Example:
//
//	backend, err := store.Open(types.Config{
//	    Backend: types.BackendFile,
//	    HomeDir: "/home/me/.woolly",
//	}, logger)
//	defer backend.Detach()
func Open(config types.Config, logger *slog.Logger) (types.Backend, error) {
	backend, err := New(config, logger)
	if err != nil {
		return nil, err
	}
	if err := backend.Attach(config); err != nil {
		return nil, fmt.Errorf("attaching %s backend: %w", config.Backend, err)
	}
	return backend, nil
}

// Copy writes every plan of src into dst, mode by mode, overwriting what
// dst holds. It returns the number of plans copied.
func Copy(ctx context.Context, dst, src types.PlanStore) (int, error) {
	copied := 0
	for _, mode := range types.Modes {
		names, err := src.ListProjects(ctx, mode)
		if err != nil {
			return copied, fmt.Errorf("listing %s: %w", mode, err)
		}
		for _, name := range names {
			ref := types.ProjectRef{Mode: mode, Name: name}
			plan, _, err := src.GetPlan(ctx, ref)
			if errors.Is(err, types.ErrNotFound) {
				// Project directory without a plan.
				continue
			}
			if err != nil {
				return copied, fmt.Errorf("reading %s: %w", ref, err)
			}
			if _, err := dst.PutPlan(ctx, ref, plan, ""); err != nil {
				return copied, fmt.Errorf("writing %s: %w", ref, err)
			}
			copied++
		}
	}
	return copied, nil
}
