package resolve

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/registry"
)

// resolveState tracks one extended document through the depth-first fold.
// Meeting a document already being resolved means the chain looped.
type resolveState int

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

// ResolveExtensions rewrites every extended document in the registry into
// its merged full equivalent. Parents are resolved recursively before their
// children and memoized back into the registry, so shared ancestors are
// folded exactly once no matter how many chains they appear in.
func ResolveExtensions(ctx context.Context, reg *registry.Registry) error {
	ext := &extender{
		reg:   reg,
		state: make(map[string]resolveState),
	}
	for _, name := range reg.Names() {
		doc, ok := reg.Get(name)
		if !ok || doc.Kind != document.KindExtended {
			continue
		}
		if _, err := ext.resolve(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

type extender struct {
	reg   *registry.Registry
	state map[string]resolveState
	stack []string // current chain, for cycle reports
}

// resolve folds one extended document and memoizes the result under its own
// name. The document must exist in the registry with kind extended, or have
// already been rewritten by an earlier call.
func (e *extender) resolve(ctx context.Context, name string) (*document.Document, error) {
	doc, ok := e.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", name, ErrUnknownReference)
	}
	if e.state[name] == stateResolved || doc.Kind != document.KindExtended {
		return doc, nil
	}
	if e.state[name] == stateResolving {
		chain := strings.Join(append(slices.Clone(e.stack), name), " -> ")
		return nil, fmt.Errorf("%w: %s", ErrExtendsCycle, chain)
	}

	e.state[name] = stateResolving
	e.stack = append(e.stack, name)
	defer func() { e.stack = e.stack[:len(e.stack)-1] }()

	merged, err := e.merge(ctx, doc)
	if err != nil {
		return nil, err
	}
	e.reg.Put(merged)
	e.state[name] = stateResolved
	return merged, nil
}

// merge folds the parents of doc left to right into a deep-copied
// accumulator, later parents overriding earlier ones, then folds doc itself
// on top. The result carries doc's identity and is a full document.
func (e *extender) merge(ctx context.Context, doc *document.Document) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	first, err := e.parent(ctx, doc, doc.Extends[0])
	if err != nil {
		return nil, err
	}
	acc := first.Clone()
	acc.Name = doc.Name
	acc.Source = doc.Source

	for _, ref := range doc.Extends[1:] {
		next, err := e.parent(ctx, doc, ref)
		if err != nil {
			return nil, err
		}
		mergeExtension(ctx, acc, next)
	}
	mergeExtension(ctx, acc, doc)

	acc.Kind = document.KindFull
	acc.Extends = nil
	acc.Include = append([]string(nil), doc.Include...)
	logger.Debug("resolved extended document", "name", doc.Name, "parents", doc.Extends)
	return acc, nil
}

// parent looks up one extends reference and resolves it first if it is
// itself an unresolved extended document.
func (e *extender) parent(ctx context.Context, doc *document.Document, ref string) (*document.Document, error) {
	p, ok := e.reg.Get(ref)
	if !ok {
		return nil, fmt.Errorf("document %q: extends %q: %w", doc.Name, ref, ErrUnknownReference)
	}
	switch p.Kind {
	case document.KindPartial:
		return nil, fmt.Errorf("document %q: extends %q: %w: partials cannot be extended", doc.Name, ref, ErrWrongKind)
	case document.KindExtended:
		return e.resolve(ctx, ref)
	default:
		return p, nil
	}
}

// mergeExtension folds the overriding document over the accumulator, in
// place. Option sets merge with override semantics. The scalar rules differ
// by field: meta, active, only and min_version always take the overriding
// document's value, set or not, while board_env and each based_on field keep
// the accumulated value when the overriding document leaves them unset.
func mergeExtension(ctx context.Context, acc, over *document.Document) {
	acc.Config = mergeOverride(ctx, acc.Config, over.Config, acc.Name, over.Name)
	acc.ConfigAdv = mergeOverride(ctx, acc.ConfigAdv, over.ConfigAdv, acc.Name, over.Name)

	if over.Meta != nil {
		meta := *over.Meta
		acc.Meta = &meta
	} else {
		acc.Meta = nil
	}
	if over.Active != nil {
		active := *over.Active
		acc.Active = &active
	} else {
		acc.Active = nil
	}
	acc.Only = over.Only
	acc.MinVersion = over.MinVersion

	if over.BoardEnv != "" {
		acc.BoardEnv = over.BoardEnv
	}
	if over.BasedOn != nil {
		if acc.BasedOn == nil {
			acc.BasedOn = &document.BasedOn{}
		}
		if over.BasedOn.Repo != "" {
			acc.BasedOn.Repo = over.BasedOn.Repo
		}
		if over.BasedOn.Path != "" {
			acc.BasedOn.Path = over.BasedOn.Path
		}
		if over.BasedOn.StableBranch != "" {
			acc.BasedOn.StableBranch = over.BasedOn.StableBranch
		}
		if over.BasedOn.NightlyBranch != "" {
			acc.BasedOn.NightlyBranch = over.BasedOn.NightlyBranch
		}
	}
}

// mergeOverride merges the overriding option set into base with extension
// semantics: the overriding set is the authority for conflicts, same-name
// entries are replaced wholesale so parameter values update, and new entries
// append in authoring order.
func mergeOverride(ctx context.Context, base, over *document.OptionSet, baseName, overName string) *document.OptionSet {
	if over == nil {
		return base
	}
	if base == nil {
		return over.Clone()
	}
	out := reconcile(ctx, base, baseName, over, overName, false)
	for _, opt := range over.Enable {
		if i := indexEnable(out, opt.Name); i >= 0 {
			out.Enable[i] = opt
		} else {
			out.Enable = append(out.Enable, opt)
		}
	}
	for _, opt := range over.Disable {
		if !out.HasDisable(opt.Name) {
			out.Disable = append(out.Disable, opt)
		}
	}
	return out
}

func indexEnable(set *document.OptionSet, name string) int {
	for i, opt := range set.Enable {
		if opt.Name == name {
			return i
		}
	}
	return -1
}
