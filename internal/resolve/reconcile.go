package resolve

import (
	"context"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
)

// reconcile settles enable/disable conflicts between two option sets and
// returns a filtered copy of set. Neither input is mutated.
//
// The authority set wins every conflict: enables in set contradicted by an
// authority disable are dropped, as are disables contradicted by an
// authority enable. In self mode set and authority are the same set, and
// only the enable side is filtered, so an option both enabled and disabled
// within one document deterministically ends up disabled.
func reconcile(ctx context.Context, set *document.OptionSet, setName string, authority *document.OptionSet, authorityName string, self bool) *document.OptionSet {
	if set == nil {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	authorityEnable := make(map[string]bool)
	authorityDisable := make(map[string]bool)
	if authority != nil {
		for _, opt := range authority.Enable {
			authorityEnable[opt.Name] = true
		}
		for _, opt := range authority.Disable {
			authorityDisable[opt.Name] = true
		}
	}

	out := &document.OptionSet{}
	for _, opt := range set.Enable {
		if authorityDisable[opt.Name] {
			if self {
				logger.Warn("option both enabled and disabled in the same document, keeping the disable",
					"option", opt.Name, "document", setName)
			} else {
				logger.Warn("enable dropped, overridden by a disable",
					"option", opt.Name, "document", setName, "overridden_by", authorityName)
			}
			continue
		}
		out.Enable = append(out.Enable, opt)
	}

	if self {
		out.Disable = append([]document.Option(nil), set.Disable...)
		return out
	}

	for _, opt := range set.Disable {
		if authorityEnable[opt.Name] {
			logger.Warn("disable dropped, overridden by an enable",
				"option", opt.Name, "document", setName, "overridden_by", authorityName)
			continue
		}
		out.Disable = append(out.Disable, opt)
	}
	return out
}
