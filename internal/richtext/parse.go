package richtext

import (
	"encoding/json"
	"strings"
)

// Kind classifies a serialized description.
type Kind int

const (
	// Empty is a blank description.
	Empty Kind = iota
	// Valid is a well-formed serialized document.
	Valid
	// Invalid is anything else: not JSON, or JSON without the document shape.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Valid:
		return "valid"
	default:
		return "invalid"
	}
}

// Result is the outcome of Parse. Document is only meaningful when Kind is Valid.
type Result struct {
	Kind     Kind
	Document Document
}

// Parse classifies a serialized description. The input must be syntactically
// valid JSON and, independently, have the structure of a document object
// before it is decoded. It never fails: bad input is reported as Invalid.
func Parse(serialized string) Result {
	if strings.TrimSpace(serialized) == "" {
		return Result{Kind: Empty}
	}

	var generic any
	if err := json.Unmarshal([]byte(serialized), &generic); err != nil {
		return Result{Kind: Invalid}
	}
	if !isDocumentShape(generic) {
		return Result{Kind: Invalid}
	}

	var doc Document
	if err := json.Unmarshal([]byte(serialized), &doc); err != nil {
		return Result{Kind: Invalid}
	}
	return Result{Kind: Valid, Document: doc.normalized()}
}

// isDocumentShape checks the decoded JSON is an object with a "blocks" array
// of objects carrying string text and an "entityMap" object.
func isDocumentShape(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	blocks, ok := obj["blocks"].([]any)
	if !ok {
		return false
	}
	for _, raw := range blocks {
		block, ok := raw.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := block["text"].(string); !ok {
			return false
		}
	}
	_, ok = obj["entityMap"].(map[string]any)
	return ok
}

// Serialize encodes a document in its raw JSON form.
func Serialize(doc Document) (string, error) {
	b, err := json.Marshal(doc.normalized())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
