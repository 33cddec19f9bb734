package catalog

import (
	"strings"
)

// BuildLinkset assembles the catalog document for cfg with every relative
// anchor rooted at origin.
func BuildLinkset(cfg *Config, origin string) Linkset {
	prefix := ""
	if cfg.Origin != nil {
		prefix = cfg.Origin.PathPrefix()
	}
	return buildLinkset(cfg, origin, prefix)
}

func buildLinkset(cfg *Config, origin, prefix string) Linkset {
	contexts := make([]*Context, 0, len(cfg.APIs))
	for _, api := range cfg.APIs {
		contexts = append(contexts, buildContext(api, origin, prefix))
	}
	return Linkset{
		Linkset:  contexts,
		Metadata: buildMetadata(cfg.Publisher),
	}
}

func buildContext(api APIEntry, origin, prefix string) *Context {
	anchor := api.AbsoluteAnchor
	if anchor == "" {
		anchor = joinAnchor(origin, prefix, api.BasePath)
	}
	ctx := NewContext(strings.TrimRight(anchor, "/"))

	for _, spec := range api.Specs {
		ctx.Add(spec.relation(), spec.Link())
	}
	return ctx
}

func buildMetadata(publisher string) []Metadata {
	return []Metadata{{Profile: RFC9727Profile, Publisher: publisher}}
}

// joinAnchor joins origin and path segments with single slashes. Empty
// segments and "/" contribute nothing.
func joinAnchor(origin string, segments ...string) string {
	parts := []string{strings.TrimRight(origin, "/")}
	for _, seg := range segments {
		if seg = strings.Trim(seg, "/"); seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.TrimRight(strings.Join(parts, "/"), "/")
}
