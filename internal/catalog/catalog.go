// Package catalog loads the static content index: the pages, documents and
// tools the palette searches, plus the quick action definitions.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/altinukshini/enablehub/internal/model"
)

var ErrUnknownFormat = errors.New("unknown catalog format")

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionOpenURL  ActionKind = "open-url"
	ActionCopyLink ActionKind = "copy-link"
	ActionBack     ActionKind = "back"
	ActionHelp     ActionKind = "help"
	ActionQuit     ActionKind = "quit"
)

func (k ActionKind) Valid() bool {
	switch k {
	case ActionNavigate, ActionOpenURL, ActionCopyLink, ActionBack, ActionHelp, ActionQuit:
		return true
	}
	return false
}

// NeedsTarget reports whether the kind is meaningless without a target.
func (k ActionKind) NeedsTarget() bool {
	return k == ActionNavigate || k == ActionOpenURL
}

// ActionSpec describes a quick action as data. The host turns specs into
// model.QuickAction values with real callbacks.
type ActionSpec struct {
	ID          string     `toml:"id" yaml:"id"`
	Title       string     `toml:"title" yaml:"title"`
	Description string     `toml:"description" yaml:"description"`
	Icon        model.Icon `toml:"icon,omitempty" yaml:"icon,omitempty"`
	Shortcut    string     `toml:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Kind        ActionKind `toml:"kind" yaml:"kind"`
	Target      string     `toml:"target,omitempty" yaml:"target,omitempty"`
}

type Catalog struct {
	Name    string                 `toml:"name,omitempty" yaml:"name,omitempty"`
	BaseURL string                 `toml:"base_url,omitempty" yaml:"base_url,omitempty"`
	Items   []model.SearchableItem `toml:"items" yaml:"items"`
	Actions []ActionSpec           `toml:"actions" yaml:"actions"`
}

// Decode parses, normalizes and validates a catalog document.
func Decode(data []byte, format Format) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("parse toml catalog: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode renders the catalog in the given format.
func Encode(c *Catalog, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Normalize fills defaults: nil keyword slices become empty and a missing
// category on an item without a path becomes "action".
func (c *Catalog) Normalize() {
	for i := range c.Items {
		it := &c.Items[i]
		if it.Keywords == nil {
			it.Keywords = []string{}
		}
		if it.Category == "" {
			if it.Path == "" {
				it.Category = model.CategoryAction
			} else {
				it.Category = model.CategoryPage
			}
		}
	}
}

// Validate checks the index invariants and reports every problem at once.
func (c *Catalog) Validate() error {
	var errs []error
	if len(c.Items) == 0 {
		errs = append(errs, errors.New("catalog has no items"))
	}

	seen := make(map[string]string)
	claim := func(id, what string) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s: missing id", what))
			return
		}
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q (also used by %s)", what, id, prev))
			return
		}
		seen[id] = what
	}

	for i, it := range c.Items {
		what := fmt.Sprintf("item %d", i)
		claim(it.ID, what)
		if it.Title == "" {
			errs = append(errs, fmt.Errorf("%s (%s): missing title", what, it.ID))
		}
		if !it.Category.Valid() {
			errs = append(errs, fmt.Errorf("%s (%s): invalid category %q", what, it.ID, it.Category))
		}
	}

	for i, a := range c.Actions {
		what := fmt.Sprintf("action %d", i)
		claim(a.ID, what)
		if a.Title == "" {
			errs = append(errs, fmt.Errorf("%s (%s): missing title", what, a.ID))
		}
		if !a.Kind.Valid() {
			errs = append(errs, fmt.Errorf("%s (%s): invalid kind %q", what, a.ID, a.Kind))
		} else if a.Kind.NeedsTarget() && a.Target == "" {
			errs = append(errs, fmt.Errorf("%s (%s): kind %s needs a target", what, a.ID, a.Kind))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// Lookup returns the item routed at path.
func (c *Catalog) Lookup(path string) (model.SearchableItem, bool) {
	for _, it := range c.Items {
		if it.Path != "" && it.Path == path {
			return it, true
		}
	}
	return model.SearchableItem{}, false
}

// URL joins the catalog base URL with a route path. It returns "" when the
// catalog has no base URL.
func (c *Catalog) URL(path string) string {
	if c.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
