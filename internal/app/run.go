package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/plan"
	"github.com/vk/firmforge/internal/registry"
	"github.com/vk/firmforge/internal/resolve"
)

// Resolve scans the configured document tree and runs the resolution
// pipeline, returning the registry of fully merged build documents. Run
// builds on it; tests call it directly when they only care about resolution.
func (a *App) Resolve(ctx context.Context) (*registry.Registry, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	raws, err := a.store.Scan(ctx, a.config.BuildsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan build documents: %w", err)
	}
	if len(raws) == 0 {
		a.logger.Warn("No build documents found.", "path", a.config.BuildsPath)
	}

	reg, err := resolve.Resolve(ctx, raws)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve build documents: %w", err)
	}
	return reg, nil
}

// Run executes the main application logic: resolve the document tree, select
// the build plan for the configured release, and encode it for the build
// executor.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	reg, err := a.Resolve(ctx)
	if err != nil {
		return err
	}

	jobs, err := plan.Select(ctx, reg, a.config.Channel, a.config.Version)
	if err != nil {
		return fmt.Errorf("failed to select build plan: %w", err)
	}

	if err := a.writePlan(jobs); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// writePlan encodes the jobs to the configured destination. Empty or "-"
// means the writer the App was constructed with, normally stdout.
func (a *App) writePlan(jobs []*plan.Job) error {
	if a.config.OutPath == "" || a.config.OutPath == "-" {
		return plan.Encode(a.outW, jobs, a.config.Format)
	}

	f, err := os.Create(a.config.OutPath)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	if err := plan.Encode(f, jobs, a.config.Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}

	a.logger.Info("Build plan written.", "path", a.config.OutPath, "jobs", len(jobs))
	return nil
}
