// Package catalog builds RFC 9727 API catalog documents and resolves the
// public origin they are anchored to.
//
// The package has no framework dependencies. Adapters for net/http, chi, gin
// and echo live in sibling packages and only translate between their native
// request/response types and Request / Response defined here.
package catalog

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

const (
	// RFC9727Profile is the profile URI reported in linkset metadata and in
	// the response Content-Type.
	RFC9727Profile = "https://www.rfc-editor.org/info/rfc9727"

	// WellKnownPath is where the catalog is served.
	WellKnownPath = "/.well-known/api-catalog"

	// LinksetContentType is the media type of the catalog document.
	LinksetContentType = `application/linkset+json; profile="` + RFC9727Profile + `"`

	// LinkRelAPICatalog is the relation used in the Link response header.
	LinkRelAPICatalog = "api-catalog"

	// RelServiceDesc is the relation a spec lands in when it has no Rel.
	RelServiceDesc = "service-desc"
)

var (
	ErrNoConfig      = errors.New("catalog: config is required")
	ErrInvalidOrigin = errors.New("catalog: invalid fixed origin")
	ErrInvalidTrust  = errors.New("catalog: invalid trust proxy setting")
)

// SpecKind describes what a referenced document is. It is metadata only and
// never appears in the emitted linkset.
type SpecKind string

const (
	KindOpenAPI    SpecKind = "openapi"
	KindAsyncAPI   SpecKind = "asyncapi"
	KindGraphQL    SpecKind = "graphql"
	KindJSONSchema SpecKind = "json-schema"
	KindOther      SpecKind = "other"
)

// Values is a list of strings that is written as a bare string when it holds
// exactly one element, and as an array otherwise.
type Values []string

func (v Values) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}

func (v *Values) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Values{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*v = list
	return nil
}

func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = Values{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*v = list
	return nil
}

// LinkObject is a target link as written into a relation bucket.
type LinkObject struct {
	Href     string `json:"href" yaml:"href"`
	Type     string `json:"type,omitempty" yaml:"type"`
	Hreflang Values `json:"hreflang,omitempty" yaml:"hreflang"`
	Title    string `json:"title,omitempty" yaml:"title"`
	Profile  Values `json:"profile,omitempty" yaml:"profile"`
}

// SpecRef points at a machine readable description of an API. Rel selects
// the relation bucket; an empty Rel means service-desc.
type SpecRef struct {
	LinkObject `yaml:",inline"`
	Rel        string   `json:"rel,omitempty" yaml:"rel"`
	Kind       SpecKind `json:"kind,omitempty" yaml:"kind"`
}

// Link returns the wire form of the reference with Rel and Kind removed.
func (s SpecRef) Link() LinkObject {
	return s.LinkObject
}

func (s SpecRef) relation() string {
	if s.Rel == "" {
		return RelServiceDesc
	}
	return s.Rel
}

// APIEntry describes one API listed in the catalog.
type APIEntry struct {
	ID          string
	Title       string
	Description string
	// BasePath is joined onto the origin to form the anchor. Empty means "/".
	BasePath string
	// AbsoluteAnchor, when set, is used verbatim as the anchor.
	AbsoluteAnchor string
	Specs          []SpecRef
}

// Config is the declarative catalog definition.
type Config struct {
	Publisher string
	// Origin selects how the anchor origin is derived. Nil means
	// FromRequest with proxy trust disabled.
	Origin OriginStrategy
	APIs   []APIEntry
}
