package richtext

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

var styleTags = map[string]string{
	"BOLD":          "strong",
	"ITALIC":        "em",
	"UNDERLINE":     "u",
	"STRIKETHROUGH": "s",
	"CODE":          "code",
}

var blockTags = map[string]string{
	BlockHeaderOne:   "h1",
	BlockHeaderTwo:   "h2",
	BlockHeaderThree: "h3",
	BlockBlockquote:  "blockquote",
}

// RenderHTML converts a document to HTML. Consecutive list items are grouped
// into a single <ul>/<ol>. Offsets are counted in runes.
func RenderHTML(doc Document) string {
	var sb strings.Builder
	openList := ""

	closeList := func() {
		if openList != "" {
			sb.WriteString("</" + openList + ">")
			openList = ""
		}
	}

	for _, b := range doc.Blocks {
		listTag := ""
		switch b.Type {
		case BlockUnordered:
			listTag = "ul"
		case BlockOrdered:
			listTag = "ol"
		}
		if listTag != openList {
			closeList()
			if listTag != "" {
				sb.WriteString("<" + listTag + ">")
				openList = listTag
			}
		}

		switch {
		case listTag != "":
			sb.WriteString("<li>" + renderInline(b, doc.EntityMap) + "</li>")
		case b.Type == BlockAtomic:
			sb.WriteString(renderAtomic(b, doc.EntityMap))
		default:
			tag, ok := blockTags[b.Type]
			if !ok {
				tag = "p"
			}
			sb.WriteString("<" + tag + ">" + renderInline(b, doc.EntityMap) + "</" + tag + ">")
		}
	}
	closeList()
	return sb.String()
}

func renderAtomic(b Block, entities map[string]Entity) string {
	for _, r := range b.EntityRanges {
		e, ok := entities[fmt.Sprint(r.Key)]
		if !ok || e.Type != EntityImage {
			continue
		}
		src, _ := e.Data["src"].(string)
		alt, _ := e.Data["alt"].(string)
		return fmt.Sprintf(`<figure><img src="%s" alt="%s"></figure>`,
			html.EscapeString(src), html.EscapeString(alt))
	}
	return ""
}

// renderInline wraps styled and linked runs of a block's text.
func renderInline(b Block, entities map[string]Entity) string {
	runes := []rune(b.Text)
	if len(runes) == 0 {
		return ""
	}

	styles := make([][]string, len(runes))
	for _, r := range b.InlineStyleRanges {
		tag, ok := styleTags[r.Style]
		if !ok {
			continue
		}
		for i := r.Offset; i < r.Offset+r.Length && i < len(runes); i++ {
			if i >= 0 {
				styles[i] = append(styles[i], tag)
			}
		}
	}
	links := make([]string, len(runes))
	for _, r := range b.EntityRanges {
		e, ok := entities[fmt.Sprint(r.Key)]
		if !ok || e.Type != EntityLink {
			continue
		}
		href, _ := e.Data["url"].(string)
		for i := r.Offset; i < r.Offset+r.Length && i < len(runes); i++ {
			if i >= 0 {
				links[i] = href
			}
		}
	}

	var sb strings.Builder
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && sameRun(styles[i], styles[start]) && links[i] == links[start] {
			continue
		}
		sb.WriteString(wrapRun(html.EscapeString(string(runes[start:i])), styles[start], links[start]))
		start = i
	}
	return sb.String()
}

func wrapRun(text string, tags []string, href string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	for _, t := range sorted {
		text = "<" + t + ">" + text + "</" + t + ">"
	}
	if href != "" {
		text = `<a href="` + html.EscapeString(href) + `">` + text + "</a>"
	}
	return text
}

func sameRun(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
