package arm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TemplateParser = (*Normaliser)(nil)

// Normaliser parses ARM deployment templates (JSON).
type Normaliser struct{}

// New creates a new ARM template parser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this parser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".json"}
}

// envelope captures the top-level template sections without committing
// to their shape. A nil RawMessage distinguishes an absent section from
// an empty one.
type envelope struct {
	Schema     string          `json:"$schema"`
	Resources  json.RawMessage `json:"resources"`
	Parameters json.RawMessage `json:"parameters"`
	Outputs    json.RawMessage `json:"outputs"`
}

type resourceDecl struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type typedDecl struct {
	Type         string          `json:"type"`
	DefaultValue json.RawMessage `json:"defaultValue"`
}

// Parse converts raw ARM JSON into the section model. Any of the three
// sections may be absent and defaults to empty. A document that is not
// valid JSON, or that carries no $schema and none of the three
// sections, is rejected with domain.ErrUnparsableTemplate. Resource
// entries without a type are dropped: a resource with no type cannot
// resolve to a normalised resource type.
func (n *Normaliser) Parse(content []byte) (*domain.ParsedTemplate, error) {
	var env envelope
	if err := json.Unmarshal(content, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableTemplate, err)
	}

	if env.Schema == "" && env.Resources == nil && env.Parameters == nil && env.Outputs == nil {
		return nil, fmt.Errorf("%w: no template sections present", domain.ErrUnparsableTemplate)
	}

	tmpl := &domain.ParsedTemplate{Schema: env.Schema}
	tmpl.Resources = parseResources(env.Resources)

	if env.Parameters != nil {
		_ = eachOrderedKey(env.Parameters, func(name string, value json.RawMessage) {
			var decl typedDecl
			_ = json.Unmarshal(value, &decl)
			var def any
			if decl.DefaultValue != nil {
				_ = json.Unmarshal(decl.DefaultValue, &def)
			}
			tmpl.Parameters = append(tmpl.Parameters, domain.Parameter{
				Name:    name,
				Type:    decl.Type,
				Default: def,
			})
		})
	}

	if env.Outputs != nil {
		_ = eachOrderedKey(env.Outputs, func(name string, value json.RawMessage) {
			var decl typedDecl
			_ = json.Unmarshal(value, &decl)
			tmpl.Outputs = append(tmpl.Outputs, domain.Output{Name: name, Type: decl.Type})
		})
	}

	return tmpl, nil
}

// parseResources reads the resources section, which is a list in
// classic templates and an object keyed by symbolic name under
// languageVersion 2.0. Either way, untyped entries are dropped.
func parseResources(raw json.RawMessage) []domain.Resource {
	if raw == nil {
		return nil
	}

	var out []domain.Resource

	var list []resourceDecl
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, r := range list {
			if r.Type == "" {
				continue
			}
			out = append(out, domain.Resource{Type: r.Type, Name: r.Name})
		}
		return out
	}

	_ = eachOrderedKey(raw, func(name string, value json.RawMessage) {
		var decl resourceDecl
		if err := json.Unmarshal(value, &decl); err != nil || decl.Type == "" {
			return
		}
		if decl.Name == "" {
			decl.Name = name
		}
		out = append(out, domain.Resource{Type: decl.Type, Name: decl.Name})
	})
	return out
}

// eachOrderedKey walks a JSON object's keys in declaration order.
// encoding/json maps lose ordering, so the object is re-read with a
// token decoder. Non-object input is ignored.
func eachOrderedKey(raw json.RawMessage, fn func(name string, value json.RawMessage)) error {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fn(key, value)
	}
	return nil
}
