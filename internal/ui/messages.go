package ui

// PaletteUpdatedMsg is sent after a debounced recompute of the palette.
type PaletteUpdatedMsg struct{}

// FocusInputMsg moves focus into the palette input once the dialog is
// shown. It is ignored if the palette was closed or reopened since.
type FocusInputMsg struct {
	Session uint64
}

type NavigatedMsg struct {
	Path string
}

type ShowHelpMsg struct{}

// ConfirmOpenURLMsg asks the user before launching a browser.
type ConfirmOpenURLMsg struct {
	Title string
	URL   string
}

type ActionResultMsg struct {
	Action  string
	Success bool
	Err     error
}

type StatusMsg struct {
	Text string
}
