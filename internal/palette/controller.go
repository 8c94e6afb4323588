package palette

import (
	"sync"

	"github.com/altinukshini/enablehub/internal/debounce"
	"github.com/altinukshini/enablehub/internal/model"
)

// State is a point-in-time copy of the controller for rendering.
type State struct {
	Open     bool
	Session  uint64
	RawQuery string
	Query    string
	Pending  bool
	Actions  []model.QuickAction
	Results  []model.SearchableItem
	Entries  []Entry
	Cursor   int
}

// Searching reports whether the debounced query is non-empty.
func (s State) Searching() bool {
	return s.Query != ""
}

// Controller owns the dialog lifecycle and decouples keystrokes from
// search recomputation. RawQuery follows every keystroke; the debounced
// query reaches the palette only after typing pauses.
//
// Timer callbacks may run on another goroutine, so all state sits behind
// mu. Callbacks into the host (actions, navigation, onSelect, onChange)
// always run with mu released.
type Controller struct {
	mu        sync.Mutex
	palette   *Palette
	debouncer *debounce.Debouncer
	onChange  func()

	open      bool
	raw       string
	debounced string
	// session changes on every open and close; debounced callbacks from an
	// earlier session are dropped.
	session uint64

	unsubscribe func()
}

type Option func(*Controller)

// WithOnChange registers a hook that runs after each debounced recompute.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(p *Palette, d *debounce.Debouncer, opts ...Option) *Controller {
	if d == nil {
		d = debounce.New(debounce.DefaultDelay, nil)
	}
	c := &Controller{palette: p, debouncer: d}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Controller) Session() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) RawQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

func (c *Controller) DebouncedQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debounced
}

// Open shows the dialog with an empty query. It returns true only on a
// closed to open transition.
func (c *Controller) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return false
	}
	c.open = true
	c.session++
	c.resetLocked()
	return true
}

// Close hides the dialog and discards everything typed, including a
// recompute that has not fired yet. Closing twice is harmless.
func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return false
	}
	c.open = false
	c.session++
	c.resetLocked()
	return true
}

func (c *Controller) resetLocked() {
	c.debouncer.Cancel()
	c.raw = ""
	c.debounced = ""
	c.palette.Reset()
}

// Input records the text box contents and schedules a recompute.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || text == c.raw {
		return
	}
	c.raw = text
	session := c.session
	c.debouncer.Trigger(func() { c.apply(session, text) })
}

func (c *Controller) apply(session uint64, text string) {
	c.mu.Lock()
	if !c.open || session != c.session {
		c.mu.Unlock()
		return
	}
	c.debounced = text
	c.palette.SetQuery(text)
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// HandleKey applies a key press and reports whether it was consumed.
// While closed only KeyOpen is consumed. While open, Escape closes the
// dialog before anything else sees it.
func (c *Controller) HandleKey(k Key) bool {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		if k == KeyOpen {
			c.Open()
			return true
		}
		return false
	}

	switch k {
	case KeyOpen:
		c.mu.Unlock()
		return true
	case KeyEscape:
		c.mu.Unlock()
		c.Close()
		return true
	case KeyUp:
		c.palette.MoveUp()
		c.mu.Unlock()
		return true
	case KeyDown:
		c.palette.MoveDown()
		c.mu.Unlock()
		return true
	case KeyEnter:
		e, ok := c.palette.Selected()
		c.mu.Unlock()
		if ok {
			c.palette.Dispatch(e)
		}
		return true
	}
	c.mu.Unlock()
	return false
}

// Activate confirms entry i directly, for pointer activation.
func (c *Controller) Activate(i int) bool {
	c.mu.Lock()
	if !c.open || !c.palette.Select(i) {
		c.mu.Unlock()
		return false
	}
	e, _ := c.palette.Selected()
	c.mu.Unlock()

	c.palette.Dispatch(e)
	return true
}

// Mount attaches the controller to a process-wide key source. Mounting an
// already mounted controller does nothing.
func (c *Controller) Mount(src KeySource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = src.Subscribe(c.HandleKey)
}

// Unmount detaches the key listener and closes the dialog.
func (c *Controller) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.Close()
}

func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribe != nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	actions := make([]model.QuickAction, len(c.palette.Actions()))
	copy(actions, c.palette.Actions())
	results := make([]model.SearchableItem, len(c.palette.Results()))
	copy(results, c.palette.Results())

	return State{
		Open:     c.open,
		Session:  c.session,
		RawQuery: c.raw,
		Query:    c.debounced,
		Pending:  c.debouncer.Pending(),
		Actions:  actions,
		Results:  results,
		Entries:  c.palette.Entries(),
		Cursor:   c.palette.Cursor(),
	}
}
