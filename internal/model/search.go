package model

type Category string

const (
	CategoryPage     Category = "page"
	CategoryDocument Category = "document"
	CategoryTool     Category = "tool"
	CategoryAction   Category = "action"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryPage, CategoryDocument, CategoryTool, CategoryAction}

func (c Category) Valid() bool {
	switch c {
	case CategoryPage, CategoryDocument, CategoryTool, CategoryAction:
		return true
	}
	return false
}

// Icon is an opaque glyph key. Only the presentation layer resolves it.
type Icon string

type SearchableItem struct {
	ID          string   `toml:"id" yaml:"id"`
	Title       string   `toml:"title" yaml:"title"`
	Description string   `toml:"description" yaml:"description"`
	Path        string   `toml:"path,omitempty" yaml:"path,omitempty"`
	Category    Category `toml:"category" yaml:"category"`
	Keywords    []string `toml:"keywords" yaml:"keywords"`
	Icon        Icon     `toml:"icon,omitempty" yaml:"icon,omitempty"`
	Body        string   `toml:"body,omitempty" yaml:"body,omitempty"`
}

// Navigable reports whether the item routes somewhere when confirmed.
func (i SearchableItem) Navigable() bool {
	return i.Path != ""
}

type QuickAction struct {
	ID          string
	Title       string
	Description string
	Icon        Icon
	Action      func()
	Shortcut    string
}

// Run invokes the action callback if one is set.
func (a QuickAction) Run() {
	if a.Action != nil {
		a.Action()
	}
}
