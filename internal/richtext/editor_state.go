package richtext

// EditorState is the in-memory, editable state of the description editor.
type EditorState struct {
	content Document
}

// EmptyState returns the state of a new, blank editor.
func EmptyState() EditorState {
	return EditorState{content: EmptyDocument()}
}

// StateWithContent returns an editor state holding doc. A document without
// blocks is kept as is and serializes back to the same form.
func StateWithContent(doc Document) EditorState {
	return EditorState{content: doc.normalized()}
}

// StateFromDescription decodes a stored description. Empty or malformed input
// yields an empty editor.
func StateFromDescription(serialized string) EditorState {
	res := Parse(serialized)
	if res.Kind != Valid {
		return EmptyState()
	}
	return StateWithContent(res.Document)
}

// Document returns a copy of the current content.
func (s EditorState) Document() Document {
	if s.content.Blocks == nil {
		return EmptyDocument()
	}
	return s.content.normalized()
}

// Serialize returns the raw JSON of the current content.
func (s EditorState) Serialize() (string, error) {
	return Serialize(s.Document())
}

// PlainText returns the text content without markup.
func (s EditorState) PlainText() string {
	return s.content.PlainText()
}

// HasText reports whether the editor holds any visible text.
func (s EditorState) HasText() bool {
	return s.content.HasText()
}
