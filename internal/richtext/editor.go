package richtext

import "sync"

// Editor is the default document editor handed to the product form. It keeps
// the current EditorState and renders it to HTML.
type Editor struct {
	mu    sync.RWMutex
	state EditorState
}

// NewEditor returns an editor initialised with an empty document.
func NewEditor() *Editor {
	return &Editor{state: EmptyState()}
}

// Render returns the HTML of the current content.
func (e *Editor) Render() (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return RenderHTML(e.state.Document()), nil
}

// State returns the current editor state.
func (e *Editor) State() EditorState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetState replaces the current editor state.
func (e *Editor) SetState(s EditorState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}
