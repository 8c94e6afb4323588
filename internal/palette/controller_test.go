package palette

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/enablehub/internal/debounce"
	"github.com/altinukshini/enablehub/internal/model"
	"github.com/altinukshini/enablehub/internal/search"
)

var epoch = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// countingMatcher wraps the engine and records every recompute.
type countingMatcher struct {
	engine  *search.Engine
	queries []string
}

func (m *countingMatcher) Search(q string, items []model.SearchableItem) []model.SearchableItem {
	m.queries = append(m.queries, q)
	return m.engine.Search(q, items)
}

func (m *countingMatcher) FilterActions(q string, actions []model.QuickAction) []model.QuickAction {
	return m.engine.FilterActions(q, actions)
}

type harness struct {
	clock   *debounce.ManualClock
	matcher *countingMatcher
	rec     *recorder
	ctrl    *Controller
	changes int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:   debounce.NewManualClock(epoch),
		matcher: &countingMatcher{engine: search.New()},
		rec:     &recorder{},
	}
	items := []model.SearchableItem{
		{ID: "roi", Title: "ROI Calculator", Path: "/tools/roi", Category: model.CategoryTool, Keywords: []string{"roi", "calculator"}},
		{ID: "other", Title: "Other Tool", Path: "/tools/other", Category: model.CategoryTool, Keywords: []string{"misc"}},
	}
	actions := []model.QuickAction{
		h.rec.action("calc", "Calculate ROI"),
		h.rec.action("copy", "Copy link"),
	}
	p := New(h.matcher, items, actions, h.rec, h.rec.onSelect)
	h.ctrl = NewController(p, debounce.New(debounce.DefaultDelay, h.clock), WithOnChange(func() { h.changes++ }))
	h.matcher.queries = nil
	return h
}

// recomputes returns the non-empty queries the engine was asked to run.
func (h *harness) recomputes() []string {
	var out []string
	for _, q := range h.matcher.queries {
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.ctrl.Open())

	h.ctrl.Input("r")
	assert.Equal(t, "r", h.ctrl.RawQuery())
	h.clock.Advance(50 * time.Millisecond)
	h.ctrl.Input("ro")
	h.clock.Advance(50 * time.Millisecond)
	h.ctrl.Input("roi")
	assert.Equal(t, "roi", h.ctrl.RawQuery())
	assert.Equal(t, "", h.ctrl.DebouncedQuery())

	h.clock.Advance(149 * time.Millisecond)
	assert.Empty(t, h.recomputes())
	assert.Equal(t, 0, h.changes)

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"roi"}, h.recomputes())
	assert.Equal(t, 1, h.changes)
	assert.Equal(t, epoch.Add(250*time.Millisecond), h.clock.Now())

	st := h.ctrl.State()
	assert.Equal(t, "roi", st.Query)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "roi", st.Results[0].ID)
	require.Len(t, st.Actions, 1)
	assert.Equal(t, "calc", st.Actions[0].ID)
	assert.False(t, st.Pending)
}

func TestQueryChangeResetsCursor(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open()

	h.ctrl.HandleKey(KeyDown)
	require.Equal(t, 1, h.ctrl.State().Cursor)

	h.ctrl.Input("o")
	h.clock.Advance(debounce.DefaultDelay)
	assert.Equal(t, 0, h.ctrl.State().Cursor)
}

func TestCloseCancelsPendingRecompute(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open()

	h.ctrl.Input("roi")
	assert.True(t, h.ctrl.State().Pending)
	require.True(t, h.ctrl.Close())

	h.clock.Advance(time.Second)
	assert.Empty(t, h.recomputes())
	assert.Equal(t, 0, h.changes)

	require.True(t, h.ctrl.Open())
	st := h.ctrl.State()
	assert.Equal(t, "", st.RawQuery)
	assert.Equal(t, "", st.Query)
	assert.Len(t, st.Actions, 2)
	assert.Empty(t, st.Results)
}

func TestReopenDiscardsEarlierSessionTimers(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open()
	h.ctrl.Input("roi")
	h.ctrl.Close()
	h.ctrl.Open()
	h.ctrl.Input("other")

	h.clock.Advance(time.Second)
	assert.Equal(t, []string{"other"}, h.recomputes())
}

func TestInputIgnoredWhileClosed(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Input("roi")
	h.clock.Advance(time.Second)

	assert.Equal(t, "", h.ctrl.RawQuery())
	assert.Empty(t, h.recomputes())
}

func TestOpenAndCloseAreIdempotent(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.ctrl.Close())
	assert.True(t, h.ctrl.Open())
	s := h.ctrl.Session()
	assert.False(t, h.ctrl.Open())
	assert.Equal(t, s, h.ctrl.Session())

	assert.True(t, h.ctrl.Close())
	assert.False(t, h.ctrl.Close())
	assert.False(t, h.ctrl.IsOpen())
}

func TestHandleKeyWhileClosed(t *testing.T) {
	h := newHarness(t)

	for _, k := range []Key{KeyEscape, KeyUp, KeyDown, KeyEnter, KeyNone} {
		assert.Falsef(t, h.ctrl.HandleKey(k), "key %s", k)
	}
	assert.False(t, h.ctrl.IsOpen())
	assert.Empty(t, h.rec.selected)

	assert.True(t, h.ctrl.HandleKey(KeyOpen))
	assert.True(t, h.ctrl.IsOpen())
}

func TestEscapeClosesWithPriority(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open()
	h.ctrl.Input("ro")

	assert.True(t, h.ctrl.HandleKey(KeyEscape))
	assert.False(t, h.ctrl.IsOpen())
	assert.False(t, h.ctrl.State().Pending)
	assert.False(t, h.ctrl.HandleKey(KeyEscape))
}

func TestEnterConfirmsSelection(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open()
	h.ctrl.Input("roi")
	h.clock.Advance(debounce.DefaultDelay)

	// [calc, roi]
	h.ctrl.HandleKey(KeyDown)
	require.True(t, h.ctrl.HandleKey(KeyEnter))
	assert.Equal(t, []string{"/tools/roi"}, h.rec.paths)
	require.Len(t, h.rec.selected, 1)
	assert.Equal(t, "roi", h.rec.selected[0].ID())

	h.ctrl.HandleKey(KeyDown)
	h.ctrl.HandleKey(KeyEnter)
	assert.Equal(t, []string{"calc"}, h.rec.ran)
}

func TestEnterOnEmptyListIsNoop(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open()
	h.ctrl.Input("zzzz")
	h.clock.Advance(debounce.DefaultDelay)
	require.Empty(t, h.ctrl.State().Entries)

	assert.NotPanics(t, func() {
		assert.True(t, h.ctrl.HandleKey(KeyEnter))
		h.ctrl.HandleKey(KeyUp)
		h.ctrl.HandleKey(KeyDown)
	})
	assert.Empty(t, h.rec.selected)
}

func TestOnSelectMayCloseController(t *testing.T) {
	clock := debounce.NewManualClock(epoch)
	var ctrl *Controller
	items := []model.SearchableItem{{ID: "doc", Title: "Docs", Path: "/docs", Keywords: []string{}}}
	p := New(search.New(), items, nil, nil, func(Entry) { ctrl.Close() })
	ctrl = NewController(p, debounce.New(debounce.DefaultDelay, clock))

	ctrl.Open()
	ctrl.Input("docs")
	clock.Advance(debounce.DefaultDelay)
	ctrl.HandleKey(KeyEnter)

	assert.False(t, ctrl.IsOpen())
}

func TestActivate(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.ctrl.Activate(0), "closed controller ignores activation")

	h.ctrl.Open()
	assert.False(t, h.ctrl.Activate(5))
	assert.True(t, h.ctrl.Activate(1))
	assert.Equal(t, []string{"copy"}, h.rec.ran)
}

func TestMountSubscribesToKeySource(t *testing.T) {
	h := newHarness(t)
	hub := NewKeyHub()

	h.ctrl.Mount(hub)
	h.ctrl.Mount(hub)
	assert.Equal(t, 1, hub.Len())
	assert.True(t, h.ctrl.Mounted())

	assert.True(t, hub.Dispatch(KeyOpen))
	assert.True(t, h.ctrl.IsOpen())
	assert.True(t, hub.Dispatch(KeyEscape))
	assert.False(t, h.ctrl.IsOpen())
	assert.False(t, hub.Dispatch(KeyDown))

	hub.Dispatch(KeyOpen)
	h.ctrl.Unmount()
	assert.False(t, h.ctrl.IsOpen())
	assert.Equal(t, 0, hub.Len())
	assert.False(t, hub.Dispatch(KeyOpen))
	assert.False(t, h.ctrl.IsOpen())
}

func TestKeyHubStopsAtFirstConsumer(t *testing.T) {
	hub := NewKeyHub()
	var seen []string
	hub.Subscribe(func(k Key) bool {
		seen = append(seen, "first")
		return k == KeyEnter
	})
	unsub := hub.Subscribe(func(Key) bool {
		seen = append(seen, "second")
		return true
	})

	assert.True(t, hub.Dispatch(KeyEnter))
	assert.Equal(t, []string{"first"}, seen)

	seen = nil
	assert.True(t, hub.Dispatch(KeyUp))
	assert.Equal(t, []string{"first", "second"}, seen)

	unsub()
	unsub()
	assert.Equal(t, 1, hub.Len())
	assert.False(t, hub.Dispatch(KeyNone))
}
