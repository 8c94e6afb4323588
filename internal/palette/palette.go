// Package palette implements the command palette core: the selection state
// machine over quick actions and search results, and the input controller
// that debounces typing and owns the dialog lifecycle.
package palette

import (
	"github.com/altinukshini/enablehub/internal/model"
)

// Matcher ranks index items and filters quick actions for a query.
type Matcher interface {
	Search(query string, items []model.SearchableItem) []model.SearchableItem
	FilterActions(query string, actions []model.QuickAction) []model.QuickAction
}

// Navigator performs an application-level route change.
type Navigator interface {
	Navigate(path string)
}

type EntryKind int

const (
	EntryAction EntryKind = iota
	EntryResult
)

// Entry is one row of the combined list: either a quick action or a match.
type Entry struct {
	Kind   EntryKind
	Action model.QuickAction
	Item   model.SearchableItem
}

func (e Entry) ID() string {
	if e.Kind == EntryAction {
		return e.Action.ID
	}
	return e.Item.ID
}

func (e Entry) Title() string {
	if e.Kind == EntryAction {
		return e.Action.Title
	}
	return e.Item.Title
}

// Palette tracks the query, the filtered actions, the ranked results and
// the cursor into [actions..., results...]. It is not safe for concurrent
// use; Controller serializes access.
type Palette struct {
	matcher  Matcher
	items    []model.SearchableItem
	actions  []model.QuickAction
	nav      Navigator
	onSelect func(Entry)

	query    string
	filtered []model.QuickAction
	results  []model.SearchableItem
	cursor   int
}

// New builds a palette over an immutable index. nav and onSelect may be nil.
func New(matcher Matcher, items []model.SearchableItem, actions []model.QuickAction, nav Navigator, onSelect func(Entry)) *Palette {
	p := &Palette{
		matcher:  matcher,
		items:    items,
		actions:  actions,
		nav:      nav,
		onSelect: onSelect,
	}
	p.SetQuery("")
	return p
}

// SetQuery recomputes actions and results and moves the cursor back to 0.
func (p *Palette) SetQuery(q string) {
	p.query = q
	p.filtered = p.matcher.FilterActions(q, p.actions)
	p.results = p.matcher.Search(q, p.items)
	p.cursor = 0
}

// Reset returns the palette to its just-opened state.
func (p *Palette) Reset() {
	p.SetQuery("")
}

func (p *Palette) Query() string                   { return p.query }
func (p *Palette) Cursor() int                     { return p.cursor }
func (p *Palette) Actions() []model.QuickAction    { return p.filtered }
func (p *Palette) Results() []model.SearchableItem { return p.results }

// Searching reports whether a query is active. With no query the palette
// only shows quick actions as suggestions.
func (p *Palette) Searching() bool {
	return p.query != ""
}

func (p *Palette) Total() int {
	return len(p.filtered) + len(p.results)
}

func (p *Palette) MoveDown() {
	total := p.Total()
	if total == 0 {
		return
	}
	p.cursor = (p.cursor + 1) % total
}

func (p *Palette) MoveUp() {
	total := p.Total()
	if total == 0 {
		return
	}
	p.cursor = (p.cursor - 1 + total) % total
}

// Select moves the cursor to i. Out of range indexes are ignored.
func (p *Palette) Select(i int) bool {
	if i < 0 || i >= p.Total() {
		return false
	}
	p.cursor = i
	return true
}

// Entry resolves index i against the combined list.
func (p *Palette) Entry(i int) (Entry, bool) {
	if i < 0 || i >= p.Total() {
		return Entry{}, false
	}
	if i < len(p.filtered) {
		return Entry{Kind: EntryAction, Action: p.filtered[i]}, true
	}
	return Entry{Kind: EntryResult, Item: p.results[i-len(p.filtered)]}, true
}

// Selected returns the entry under the cursor.
func (p *Palette) Selected() (Entry, bool) {
	return p.Entry(p.cursor)
}

// Entries returns the combined list in cursor order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, 0, p.Total())
	for _, a := range p.filtered {
		out = append(out, Entry{Kind: EntryAction, Action: a})
	}
	for _, it := range p.results {
		out = append(out, Entry{Kind: EntryResult, Item: it})
	}
	return out
}

// Confirm dispatches the entry under the cursor. It returns false, doing
// nothing, when the list is empty.
func (p *Palette) Confirm() bool {
	e, ok := p.Selected()
	if !ok {
		return false
	}
	p.Dispatch(e)
	return true
}

// Activate selects index i and confirms it, as a pointer click would.
func (p *Palette) Activate(i int) bool {
	if !p.Select(i) {
		return false
	}
	return p.Confirm()
}

// Dispatch runs an entry's side effects: a quick action runs its callback,
// a result navigates when it has a path. onSelect is always notified.
// Dispatch does not touch palette state.
func (p *Palette) Dispatch(e Entry) {
	switch e.Kind {
	case EntryAction:
		e.Action.Run()
	case EntryResult:
		if e.Item.Navigable() && p.nav != nil {
			p.nav.Navigate(e.Item.Path)
		}
	}
	if p.onSelect != nil {
		p.onSelect(e)
	}
}
