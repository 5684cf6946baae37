package resolve

import (
	"context"
	"fmt"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/registry"
)

// ResolvePartials merges every included fragment into its including
// documents and deletes the consumed fragments from the registry. A partial
// included by several documents is filtered against each including document
// independently; inclusion order within one document decides which fragment
// supplies an option first.
func ResolvePartials(ctx context.Context, reg *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)

	consumed := make(map[string]bool)
	for _, name := range reg.Names() {
		doc, _ := reg.Get(name)
		if doc.Kind == document.KindPartial || len(doc.Include) == 0 {
			continue
		}
		for _, ref := range doc.Include {
			fragment, ok := reg.Get(ref)
			if !ok {
				return fmt.Errorf("document %q: include %q: %w", doc.Name, ref, ErrUnknownReference)
			}
			if fragment.Kind != document.KindPartial {
				return fmt.Errorf("document %q: include %q: %w: document is %s, not partial",
					doc.Name, ref, ErrWrongKind, fragment.Kind)
			}
			doc.Config = mergeInclude(ctx, doc.Config, fragment.Config, doc.Name, fragment.Name)
			doc.ConfigAdv = mergeInclude(ctx, doc.ConfigAdv, fragment.ConfigAdv, doc.Name, fragment.Name)
			consumed[ref] = true
			logger.Debug("merged partial", "partial", ref, "into", doc.Name)
		}
	}

	for ref := range consumed {
		reg.Delete(ref)
	}
	return nil
}

// mergeInclude merges one fragment option set into the including document's
// set. The document is the authority: conflicting fragment entries are
// dropped first, and surviving entries are appended only where the document
// has no entry of that name. Inclusion never overwrites a document's values.
func mergeInclude(ctx context.Context, base, fragment *document.OptionSet, docName, fragmentName string) *document.OptionSet {
	if fragment == nil {
		return base
	}
	filtered := reconcile(ctx, fragment, fragmentName, base, docName, false)
	if base == nil {
		base = &document.OptionSet{}
	}
	for _, opt := range filtered.Enable {
		if !base.HasEnable(opt.Name) {
			base.Enable = append(base.Enable, opt)
		}
	}
	for _, opt := range filtered.Disable {
		if !base.HasDisable(opt.Name) {
			base.Disable = append(base.Disable, opt)
		}
	}
	return base
}
