package resolve

import (
	"context"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/registry"
)

// Resolve runs the full pipeline over raw documents. On success every entry
// in the returned registry is a schema-valid full document with globally
// unique artifact names, ready for build planning.
func Resolve(ctx context.Context, raws []*document.Raw) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)

	reg, err := Classify(ctx, raws)
	if err != nil {
		return nil, err
	}
	logger.Debug("documents classified", "count", reg.Len())

	if err := ResolvePartials(ctx, reg); err != nil {
		return nil, err
	}
	if err := ResolveExtensions(ctx, reg); err != nil {
		return nil, err
	}
	if err := Finalize(ctx, reg); err != nil {
		return nil, err
	}

	logger.Info("build documents resolved", "documents", reg.Len())
	return reg, nil
}
