// Package richtext models the serialized rich-text document stored in a
// product description and the editor state built from it.
//
// The serialized form is the "raw" content JSON emitted by the admin editor:
//
//	{"blocks":[{"key":"a1b2c","text":"Hello","type":"unstyled","depth":0,
//	  "inlineStyleRanges":[],"entityRanges":[],"data":{}}],"entityMap":{}}
package richtext

import (
	"strings"

	"github.com/google/uuid"
)

// Block types understood by the renderer. Unknown types render as paragraphs.
const (
	BlockUnstyled    = "unstyled"
	BlockHeaderOne   = "header-one"
	BlockHeaderTwo   = "header-two"
	BlockHeaderThree = "header-three"
	BlockBlockquote  = "blockquote"
	BlockUnordered   = "unordered-list-item"
	BlockOrdered     = "ordered-list-item"
	BlockAtomic      = "atomic"
)

// Entity types.
const (
	EntityImage = "IMAGE"
	EntityLink  = "LINK"
)

// Document is the raw content of the editor.
type Document struct {
	Blocks    []Block           `json:"blocks"`
	EntityMap map[string]Entity `json:"entityMap"`
}

// Block is one line-level element of a Document.
type Block struct {
	Key               string         `json:"key"`
	Text              string         `json:"text"`
	Type              string         `json:"type"`
	Depth             int            `json:"depth"`
	InlineStyleRanges []StyleRange   `json:"inlineStyleRanges"`
	EntityRanges      []EntityRange  `json:"entityRanges"`
	Data              map[string]any `json:"data"`
}

// StyleRange applies an inline style (BOLD, ITALIC, ...) to part of a block.
type StyleRange struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Style  string `json:"style"`
}

// EntityRange binds part of a block to an entry of the entity map.
type EntityRange struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
	Key    int `json:"key"`
}

// Entity is an inline object such as an image or a link.
type Entity struct {
	Type       string         `json:"type"`
	Mutability string         `json:"mutability"`
	Data       map[string]any `json:"data"`
}

// NewBlock returns an unstyled block holding text.
func NewBlock(text string) Block {
	return Block{
		Key:               newBlockKey(),
		Text:              text,
		Type:              BlockUnstyled,
		InlineStyleRanges: []StyleRange{},
		EntityRanges:      []EntityRange{},
		Data:              map[string]any{},
	}
}

// EmptyDocument is the content of a freshly created editor: a single empty
// unstyled block.
func EmptyDocument() Document {
	return Document{
		Blocks:    []Block{NewBlock("")},
		EntityMap: map[string]Entity{},
	}
}

// PlainText joins the text of all blocks with newlines.
func (d Document) PlainText() string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		lines = append(lines, b.Text)
	}
	return strings.Join(lines, "\n")
}

// HasText reports whether any block carries non-whitespace text.
func (d Document) HasText() bool {
	for _, b := range d.Blocks {
		if strings.TrimSpace(b.Text) != "" {
			return true
		}
	}
	return false
}

// normalized replaces nil collections with empty ones so that the document
// serializes with [] and {} instead of null.
func (d Document) normalized() Document {
	out := Document{
		Blocks:    make([]Block, len(d.Blocks)),
		EntityMap: make(map[string]Entity, len(d.EntityMap)),
	}
	for i, b := range d.Blocks {
		if b.InlineStyleRanges == nil {
			b.InlineStyleRanges = []StyleRange{}
		}
		if b.EntityRanges == nil {
			b.EntityRanges = []EntityRange{}
		}
		if b.Data == nil {
			b.Data = map[string]any{}
		}
		if b.Type == "" {
			b.Type = BlockUnstyled
		}
		out.Blocks[i] = b
	}
	for k, e := range d.EntityMap {
		if e.Data == nil {
			e.Data = map[string]any{}
		}
		out.EntityMap[k] = e
	}
	return out
}

func newBlockKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}
