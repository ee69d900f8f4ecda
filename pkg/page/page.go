// Package page defines authored page definitions and reads and writes them as
// TOML, YAML or JSON.
//
// A page is a set of named root placeholders, each holding an ordered list of
// components. Layout components carry their own placeholders, keyed by the
// slot keys their regions expose, so pages nest to arbitrary depth:
//
//	name = "home"
//
//	[[placeholders.main]]
//	name    = "ContainerFiftyFifty"
//	params  = { DynamicPlaceholderId = "main" }
//
//	[[placeholders.main.placeholders.container-fifty-left-main]]
//	name = "RichText"
//
// A component with an explicit variant is a layout. A component without one
// is a layout when its name is a known rendering name, and opaque content
// otherwise.
package page

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/matzehuels/slotframe/pkg/core/variant"
	"github.com/matzehuels/slotframe/pkg/errors"
)

// Page is an authored page definition.
type Page struct {
	Name         string                 `json:"name" toml:"name" yaml:"name" bson:"name"`
	Title        string                 `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
	Placeholders map[string][]Component `json:"placeholders" toml:"placeholders" yaml:"placeholders" bson:"placeholders"`
}

// Component is one rendering placed into a placeholder.
type Component struct {
	// Name is the CMS rendering name ("ColumnSplitter", "RichText").
	Name string `json:"name" toml:"name" yaml:"name" bson:"name"`
	// Variant optionally pins the layout variant id. When empty the variant
	// is looked up from Name.
	Variant string `json:"variant,omitempty" toml:"variant,omitempty" yaml:"variant,omitempty" bson:"variant,omitempty"`
	// Params are the raw authoring parameters of the rendering.
	Params map[string]string `json:"params,omitempty" toml:"params,omitempty" yaml:"params,omitempty" bson:"params,omitempty"`
	// Placeholders holds nested components keyed by slot key.
	Placeholders map[string][]Component `json:"placeholders,omitempty" toml:"placeholders,omitempty" yaml:"placeholders,omitempty" bson:"placeholders,omitempty"`
}

// IsLayout reports whether the component is a layout container.
func (c Component) IsLayout() bool {
	if c.Variant != "" {
		return true
	}
	_, ok := variant.ByComponentName(c.Name)
	return ok
}

// VariantID returns the layout variant of the component, or "" for content.
func (c Component) VariantID() string {
	if c.Variant != "" {
		return c.Variant
	}
	if v, ok := variant.ByComponentName(c.Name); ok {
		return v.ID
	}
	return ""
}

// PlaceholderNames returns the names of the root placeholders in sorted order.
func (p *Page) PlaceholderNames() []string {
	return sortedKeys(p.Placeholders)
}

// SlotNames returns the keys of the component's nested placeholders in sorted order.
func (c Component) SlotNames() []string {
	return sortedKeys(c.Placeholders)
}

func sortedKeys(m map[string][]Component) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks the structure of the page: a valid name, non-empty
// placeholder keys and named components. It does not check variant ids;
// unknown variants are reported when the page is composed.
func (p *Page) Validate() error {
	if err := errors.ValidatePageName(p.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPage, err, "page name")
	}
	return validatePlaceholders(p.Placeholders, p.Name)
}

func validatePlaceholders(m map[string][]Component, path string) error {
	for _, key := range sortedKeys(m) {
		if key == "" {
			return errors.New(errors.ErrCodeInvalidPage, "%s: empty placeholder key", path)
		}
		for i, c := range m[key] {
			at := placeholderPath(path, key, i)
			if c.Name == "" && c.Variant == "" {
				return errors.New(errors.ErrCodeInvalidPage, "%s: component needs a name or a variant", at)
			}
			if err := validatePlaceholders(c.Placeholders, at); err != nil {
				return err
			}
		}
	}
	return nil
}

func placeholderPath(parent, key string, i int) string {
	return parent + "/" + key + "[" + strconv.Itoa(i) + "]"
}

// Hash returns a stable SHA-256 content hash of the page. Map keys are
// encoded in sorted order, so equal pages hash equally regardless of the
// format they were read from.
func Hash(p *Page) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
