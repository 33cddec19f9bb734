package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alecgard/apicatalog/catalog"
)

type OriginKind string

const (
	OriginFromRequest OriginKind = "fromRequest"
	OriginFixed       OriginKind = "fixed"
)

type CatalogConfig struct {
	Publisher string       `yaml:"publisher"`
	Origin    OriginConfig `yaml:"origin"`
	APIs      []APIConfig  `yaml:"apis"`
}

type OriginConfig struct {
	Kind       OriginKind `yaml:"kind"`
	Origin     string     `yaml:"origin"`    // fixed only
	BasePath   string     `yaml:"base_path"` // prefix for every api base_path
	TrustProxy TrustProxy `yaml:"trust_proxy"`
}

// TrustProxy holds a bool, a string, or a list of strings.
type TrustProxy struct {
	Value any
}

func (t *TrustProxy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			t.Value = b
			return nil
		}
		t.Value = node.Value
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		t.Value = list
		return nil
	default:
		return fmt.Errorf("trust_proxy: expected bool, string or list (line %d)", node.Line)
	}
}

type APIConfig struct {
	ID             string            `yaml:"id"`
	Title          string            `yaml:"title"`
	Description    string            `yaml:"description"`
	BasePath       string            `yaml:"base_path"`
	AbsoluteAnchor string            `yaml:"absolute_anchor"`
	Specs          []catalog.SpecRef `yaml:"specs"`

	// Shorthands expanded through the catalog helper constructors, ahead
	// of Specs.
	OpenAPI    *HelperSpec `yaml:"openapi"`
	AsyncAPI   *HelperSpec `yaml:"asyncapi"`
	GraphQL    *HelperSpec `yaml:"graphql"`
	JSONSchema *HelperSpec `yaml:"json_schema"`
}

// HelperSpec is either a bare path or {path, version}. For GraphQL the
// version is the format (sdl, introspection); for JSON Schema it is the draft.
type HelperSpec struct {
	Path    string `yaml:"path"`
	Version string `yaml:"version"`
}

func (h *HelperSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		h.Path = node.Value
		return nil
	}
	type plain HelperSpec
	return node.Decode((*plain)(h))
}

// Build converts the YAML catalog section into a catalog.Config.
func (c CatalogConfig) Build() (*catalog.Config, error) {
	strategy, err := c.Origin.strategy()
	if err != nil {
		return nil, err
	}

	out := &catalog.Config{
		Publisher: c.Publisher,
		Origin:    strategy,
		APIs:      make([]catalog.APIEntry, 0, len(c.APIs)),
	}
	seen := make(map[string]struct{}, len(c.APIs))
	for i, api := range c.APIs {
		if api.ID == "" {
			return nil, fmt.Errorf("catalog.apis[%d]: id is required", i)
		}
		if _, dup := seen[api.ID]; dup {
			return nil, fmt.Errorf("catalog.apis[%d]: duplicate id %q", i, api.ID)
		}
		seen[api.ID] = struct{}{}

		specs, err := api.specs()
		if err != nil {
			return nil, fmt.Errorf("catalog.apis[%d] (%s): %w", i, api.ID, err)
		}
		out.APIs = append(out.APIs, catalog.APIEntry{
			ID:             api.ID,
			Title:          api.Title,
			Description:    api.Description,
			BasePath:       api.BasePath,
			AbsoluteAnchor: api.AbsoluteAnchor,
			Specs:          specs,
		})
	}
	return out, nil
}

func (o OriginConfig) strategy() (catalog.OriginStrategy, error) {
	switch o.Kind {
	case "", OriginFromRequest:
		trust, err := catalog.ParseTrust(o.TrustProxy.Value)
		if err != nil {
			return nil, fmt.Errorf("catalog.origin.trust_proxy: %w", err)
		}
		return &catalog.FromRequestStrategy{Trust: trust, BasePath: o.BasePath}, nil
	case OriginFixed:
		s, err := catalog.NewFixedStrategy(o.Origin, o.BasePath)
		if err != nil {
			return nil, fmt.Errorf("catalog.origin: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("catalog.origin.kind: unknown kind %q", o.Kind)
	}
}

func (a APIConfig) specs() ([]catalog.SpecRef, error) {
	var out []catalog.SpecRef
	if a.OpenAPI != nil {
		v := catalog.OpenAPIVersion(a.OpenAPI.Version)
		switch v {
		case "", catalog.OpenAPI31, catalog.OpenAPI30:
		default:
			return nil, fmt.Errorf("openapi: unsupported version %q", v)
		}
		out = append(out, catalog.OpenAPISpec(a.OpenAPI.Path, v))
	}
	if a.AsyncAPI != nil {
		v := catalog.AsyncAPIVersion(a.AsyncAPI.Version)
		switch v {
		case "", catalog.AsyncAPI30, catalog.AsyncAPI20:
		default:
			return nil, fmt.Errorf("asyncapi: unsupported version %q", v)
		}
		out = append(out, catalog.AsyncAPISpec(a.AsyncAPI.Path, v))
	}
	if a.GraphQL != nil {
		f := catalog.GraphQLFormat(a.GraphQL.Version)
		switch f {
		case "", catalog.GraphQLSDL, catalog.GraphQLIntrospection:
		default:
			return nil, fmt.Errorf("graphql: unsupported format %q", f)
		}
		out = append(out, catalog.GraphQLSchemaSpec(a.GraphQL.Path, f))
	}
	if a.JSONSchema != nil {
		d := catalog.JSONSchemaDraft(a.JSONSchema.Version)
		switch d {
		case "", catalog.JSONSchema202012, catalog.JSONSchema201909, catalog.JSONSchemaDraft07:
		default:
			return nil, fmt.Errorf("json_schema: unsupported draft %q", d)
		}
		out = append(out, catalog.JSONSchemaSpec(a.JSONSchema.Path, d))
	}
	return append(out, a.Specs...), nil
}
