package resolve

import (
	"context"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/registry"
)

// Classify tags every raw document with its kind, validates it against the
// schema for that kind, and returns the loaded registry. An explicit partial
// marker wins over an extends list; everything else is a full document.
func Classify(ctx context.Context, raws []*document.Raw) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)

	reg := registry.New()
	for _, raw := range raws {
		doc := classifyRaw(raw)
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if err := reg.Add(doc); err != nil {
			return nil, err
		}
		logger.Debug("classified document", "name", doc.Name, "kind", doc.Kind.String())
	}
	return reg, nil
}

func classifyRaw(raw *document.Raw) *document.Document {
	kind := document.KindFull
	switch {
	case raw.Partial:
		kind = document.KindPartial
	case len(raw.Extends) > 0:
		kind = document.KindExtended
	}
	return &document.Document{
		Name:       raw.Name,
		Source:     raw.Source,
		Kind:       kind,
		Extends:    raw.Extends,
		Include:    raw.Include,
		BoardEnv:   raw.BoardEnv,
		Active:     raw.Active,
		Only:       raw.Only,
		MinVersion: raw.MinVersion,
		Meta:       raw.Meta,
		BasedOn:    raw.BasedOn,
		Config:     raw.Config,
		ConfigAdv:  raw.ConfigAdv,
	}
}
