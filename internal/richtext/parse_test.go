package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Blocks: []Block{
			{
				Key:               "abc12",
				Text:              "Linen shirt",
				Type:              BlockHeaderTwo,
				InlineStyleRanges: []StyleRange{},
				EntityRanges:      []EntityRange{},
				Data:              map[string]any{},
			},
			{
				Key:               "def34",
				Text:              "Soft and breathable",
				Type:              BlockUnstyled,
				InlineStyleRanges: []StyleRange{{Offset: 0, Length: 4, Style: "BOLD"}},
				EntityRanges:      []EntityRange{{Offset: 9, Length: 10, Key: 0}},
				Data:              map[string]any{},
			},
		},
		EntityMap: map[string]Entity{
			"0": {Type: EntityLink, Mutability: "MUTABLE", Data: map[string]any{"url": "https://example.com"}},
		},
	}
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		res := Parse(in)
		assert.Equal(t, Empty, res.Kind, "input %q", in)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":             "plain description text",
		"truncated":            `{"blocks":[`,
		"json string":          `"hello"`,
		"json number":          `42`,
		"json null":            `null`,
		"json array":           `[{"text":"a"}]`,
		"object without shape": `{"foo":"bar"}`,
		"blocks not array":     `{"blocks":{},"entityMap":{}}`,
		"block not object":     `{"blocks":["a"],"entityMap":{}}`,
		"block text missing":   `{"blocks":[{"key":"a"}],"entityMap":{}}`,
		"entityMap missing":    `{"blocks":[{"text":"a"}]}`,
		"entityMap array":      `{"blocks":[{"text":"a"}],"entityMap":[]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Invalid, Parse(in).Kind)
		})
	}
}

func TestParse_ValidRoundTrip(t *testing.T) {
	original := sampleDocument()

	serialized, err := Serialize(original)
	require.NoError(t, err)

	res := Parse(serialized)
	require.Equal(t, Valid, res.Kind)
	assert.Equal(t, original, res.Document)
}

func TestParse_FillsMissingCollections(t *testing.T) {
	res := Parse(`{"blocks":[{"key":"k1","text":"hi"}],"entityMap":{}}`)
	require.Equal(t, Valid, res.Kind)

	b := res.Document.Blocks[0]
	assert.Equal(t, BlockUnstyled, b.Type)
	assert.NotNil(t, b.InlineStyleRanges)
	assert.NotNil(t, b.EntityRanges)
	assert.NotNil(t, b.Data)
}

func TestStateFromDescription(t *testing.T) {
	empty := StateFromDescription("")
	assert.False(t, empty.HasText())
	assert.Len(t, empty.Document().Blocks, 1)

	broken := StateFromDescription("{oops")
	assert.False(t, broken.HasText())

	serialized, err := Serialize(sampleDocument())
	require.NoError(t, err)
	st := StateFromDescription(serialized)
	assert.Equal(t, sampleDocument(), st.Document())
	assert.Equal(t, "Linen shirt\nSoft and breathable", st.PlainText())
}

func TestStateWithContent_KeepsBlocklessDocument(t *testing.T) {
	in := `{"blocks":[],"entityMap":{}}`
	res := Parse(in)
	require.Equal(t, Valid, res.Kind)

	st := StateWithContent(res.Document)
	assert.False(t, st.HasText())
	assert.Empty(t, st.Document().Blocks)

	out, err := st.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, in, out)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
}
