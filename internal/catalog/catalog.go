// Package catalog loads and validates the declarative intent catalog.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ClarifyIntent is the sentinel returned when no intent can be determined
// with sufficient certainty. It is reserved and may not appear in a catalog.
const ClarifyIntent = "clarify"

var (
	ErrCatalogNotFound = errors.New("CATALOG_NOT_FOUND")
	ErrCatalogInvalid  = errors.New("CATALOG_INVALID")
)

// Definition describes a supported intent, sample utterances, and slot metadata.
type Definition struct {
	Name             string   `json:"-"`
	Description      string   `json:"description"`
	SampleUtterances []string `json:"sample_utterances"`
	RequiredSlots    []string `json:"required_slots,omitempty"`
	OptionalSlots    []string `json:"optional_slots,omitempty"`
}

// DeclaredSlots returns the union of required and optional slot names.
func (d *Definition) DeclaredSlots() map[string]struct{} {
	slots := make(map[string]struct{}, len(d.RequiredSlots)+len(d.OptionalSlots))
	for _, s := range d.RequiredSlots {
		slots[s] = struct{}{}
	}
	for _, s := range d.OptionalSlots {
		slots[s] = struct{}{}
	}
	return slots
}

// Catalog holds the loaded intent definitions. It is immutable after Load
// and safe to share across concurrent callers without locking.
type Catalog struct {
	definitions map[string]Definition
	names       []string
}

// definitionSchema is the JSON schema each catalog entry must satisfy.
const definitionSchema = `{
	"type": "object",
	"required": ["description", "sample_utterances"],
	"additionalProperties": false,
	"properties": {
		"description": {"type": "string", "minLength": 1},
		"sample_utterances": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 1
		},
		"required_slots": {"type": "array", "items": {"type": "string"}},
		"optional_slots": {"type": "array", "items": {"type": "string"}}
	}
}`

// Load reads the catalog file and validates every definition. Schema
// violations fail fast: a process with a malformed catalog must not start.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogInvalid, path, err)
	}
	return Parse(data)
}

// Parse builds a Catalog from raw JSON mapping intent name to definition.
func Parse(data []byte) (*Catalog, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: catalog declares no intents", ErrCatalogInvalid)
	}

	schemaLoader := gojsonschema.NewStringLoader(definitionSchema)

	definitions := make(map[string]Definition, len(payload))
	names := make([]string, 0, len(payload))
	for name, raw := range payload {
		if name == ClarifyIntent {
			return nil, fmt.Errorf("%w: intent name %q is reserved", ErrCatalogInvalid, ClarifyIntent)
		}
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: empty intent name", ErrCatalogInvalid)
		}

		documentLoader := gojsonschema.NewBytesLoader(raw)
		result, err := gojsonschema.Validate(schemaLoader, documentLoader)
		if err != nil {
			return nil, fmt.Errorf("%w: intent %q: %v", ErrCatalogInvalid, name, err)
		}
		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for i, e := range result.Errors() {
				errs[i] = e.String()
			}
			return nil, fmt.Errorf("%w: intent %q: %s", ErrCatalogInvalid, name, strings.Join(errs, "; "))
		}

		var def Definition
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("%w: intent %q: %v", ErrCatalogInvalid, name, err)
		}
		def.Name = name
		definitions[name] = def
		names = append(names, name)
	}

	sort.Strings(names)
	return &Catalog{definitions: definitions, names: names}, nil
}

// Get returns the definition for an intent name.
func (c *Catalog) Get(name string) (Definition, bool) {
	def, ok := c.definitions[name]
	return def, ok
}

// Has reports whether the catalog declares the intent.
func (c *Catalog) Has(name string) bool {
	_, ok := c.definitions[name]
	return ok
}

// Names returns the declared intent names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of declared intents.
func (c *Catalog) Len() int {
	return len(c.definitions)
}

// Definitions returns a copy of the full definition mapping, suitable for
// re-serialization.
func (c *Catalog) Definitions() map[string]Definition {
	out := make(map[string]Definition, len(c.definitions))
	for name, def := range c.definitions {
		out[name] = def
	}
	return out
}
