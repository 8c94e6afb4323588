package search

import (
	"sort"
	"strings"

	"github.com/altinukshini/enablehub/internal/model"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Search returns the items matching query, ranked exact title first, then
// title substring, then everything else in index order. An empty query
// yields no results rather than the whole index.
func (e *Engine) Search(query string, items []model.SearchableItem) []model.SearchableItem {
	if query == "" {
		return []model.SearchableItem{}
	}

	q := strings.ToLower(query)
	matched := make([]model.SearchableItem, 0, len(items))
	for _, item := range items {
		if matchItem(item, q) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return rank(matched[i], q) < rank(matched[j], q)
	})
	return matched
}

// FilterActions keeps quick actions whose title or description contains
// query. Unlike Search, an empty query keeps every action.
func (e *Engine) FilterActions(query string, actions []model.QuickAction) []model.QuickAction {
	if query == "" {
		out := make([]model.QuickAction, len(actions))
		copy(out, actions)
		return out
	}

	q := strings.ToLower(query)
	out := make([]model.QuickAction, 0, len(actions))
	for _, a := range actions {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			out = append(out, a)
		}
	}
	return out
}

// matchItem expects q to be lowercased already.
func matchItem(item model.SearchableItem, q string) bool {
	if strings.Contains(strings.ToLower(item.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), q) {
		return true
	}
	for _, kw := range item.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

const (
	rankExactTitle = iota
	rankTitle
	rankOther
)

func rank(item model.SearchableItem, q string) int {
	title := strings.ToLower(item.Title)
	switch {
	case title == q:
		return rankExactTitle
	case strings.Contains(title, q):
		return rankTitle
	default:
		return rankOther
	}
}
