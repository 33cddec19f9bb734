package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context is one linkset entry: an anchor and its relation buckets. Buckets
// keep the order in which their relation was first seen, and links keep the
// order in which they were added.
type Context struct {
	Anchor string
	rels   []string
	links  map[string][]LinkObject
}

// NewContext returns a context holding only its anchor.
func NewContext(anchor string) *Context {
	return &Context{Anchor: anchor, links: make(map[string][]LinkObject)}
}

// Add appends link to the bucket for rel. Any relation name is accepted.
func (c *Context) Add(rel string, link LinkObject) {
	if c.links == nil {
		c.links = make(map[string][]LinkObject)
	}
	if _, ok := c.links[rel]; !ok {
		c.rels = append(c.rels, rel)
	}
	c.links[rel] = append(c.links[rel], link)
}

// Links returns the bucket for rel.
func (c *Context) Links(rel string) []LinkObject {
	return c.links[rel]
}

// Relations returns relation names in insertion order.
func (c *Context) Relations() []string {
	out := make([]string, len(c.rels))
	copy(out, c.rels)
	return out
}

// MarshalJSON writes "anchor" first followed by each relation bucket. A
// relation literally named "anchor" is written as its own member after it.
func (c *Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"anchor":`)
	anchor, err := json.Marshal(c.Anchor)
	if err != nil {
		return nil, err
	}
	buf.Write(anchor)

	for _, rel := range c.rels {
		key, err := json.Marshal(rel)
		if err != nil {
			return nil, err
		}
		links, err := json.Marshal(c.links[rel])
		if err != nil {
			return nil, fmt.Errorf("relation %s: %w", rel, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(links)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a context, including relation order.
func (c *Context) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("linkset context: expected object, got %v", tok)
	}

	*c = Context{links: make(map[string][]LinkObject)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if key == "anchor" && len(raw) > 0 && raw[0] == '"' {
			if err := json.Unmarshal(raw, &c.Anchor); err != nil {
				return err
			}
			continue
		}

		var links []LinkObject
		if err := json.Unmarshal(raw, &links); err != nil {
			return fmt.Errorf("relation %s: %w", key, err)
		}
		for _, l := range links {
			c.Add(key, l)
		}
	}
	_, err = dec.Token()
	return err
}

// Metadata describes the linkset as a whole.
type Metadata struct {
	Profile   string `json:"profile"`
	Publisher string `json:"publisher,omitempty"`
}

// Linkset is the API catalog document.
type Linkset struct {
	Linkset  []*Context `json:"linkset"`
	Metadata []Metadata `json:"linkset-metadata,omitempty"`
}
