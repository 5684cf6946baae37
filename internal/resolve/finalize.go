package resolve

import (
	"context"
	"fmt"

	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/registry"
)

// Finalize settles each remaining document's internal enable/disable
// conflicts, re-validates it against the full schema, and enforces that no
// artifact name is produced by two documents on the same channel.
func Finalize(ctx context.Context, reg *registry.Registry) error {
	stableNames := make(map[string]string)
	nightlyNames := make(map[string]string)

	for _, name := range reg.Names() {
		doc, _ := reg.Get(name)
		if doc.Kind == document.KindPartial {
			return fmt.Errorf("document %q: partial is never included by any document", doc.Name)
		}

		doc.Config = reconcile(ctx, doc.Config, doc.Name, doc.Config, doc.Name, true)
		doc.ConfigAdv = reconcile(ctx, doc.ConfigAdv, doc.Name, doc.ConfigAdv, doc.Name, true)

		if err := doc.Validate(); err != nil {
			return err
		}

		if prev, taken := stableNames[doc.Meta.StableName]; taken {
			return fmt.Errorf("%w: stable artifact %q produced by both %q and %q",
				ErrDuplicateArtifact, doc.Meta.StableName, prev, doc.Name)
		}
		stableNames[doc.Meta.StableName] = doc.Name

		if prev, taken := nightlyNames[doc.Meta.NightlyName]; taken {
			return fmt.Errorf("%w: nightly artifact %q produced by both %q and %q",
				ErrDuplicateArtifact, doc.Meta.NightlyName, prev, doc.Name)
		}
		nightlyNames[doc.Meta.NightlyName] = doc.Name
	}
	return nil
}
