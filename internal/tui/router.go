package tui

// Router tracks the current route and the way back.
type Router struct {
	current string
	history []string
}

func NewRouter(start string) *Router {
	if start == "" {
		start = "/"
	}
	return &Router{current: start}
}

func (r *Router) Current() string {
	return r.current
}

// Navigate moves to path. Navigating to the current route is a no-op so
// repeated selections do not grow the history.
func (r *Router) Navigate(path string) {
	if path == "" || path == r.current {
		return
	}
	r.history = append(r.history, r.current)
	r.current = path
}

// Back returns to the previous route and reports whether there was one.
func (r *Router) Back() bool {
	if len(r.history) == 0 {
		return false
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return true
}

func (r *Router) CanGoBack() bool {
	return len(r.history) > 0
}
