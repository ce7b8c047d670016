package story

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Span is a run of scene or choice text with uniform presentation.
// A span with a non-empty Swatch is a colour block and has no text.
type Span struct {
	Text      string
	Emphasis  bool
	Highlight bool
	Swatch    string
}

var swatchClass = regexp.MustCompile(`bg-\[(#[0-9a-fA-F]{3,8})\]`)

type openTag struct {
	name  string
	class string
}

// Spans splits text into presentation spans. Markup is a small HTML subset:
// elements whose class carries a text-* colour highlight their content, empty
// elements with a bg-[#rrggbb] class become swatches, and *asterisks* toggle
// emphasis. Unknown tags are dropped and their text kept.
func Spans(text string) []Span {
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		spans    []Span
		stack    []openTag
		emphasis bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return spans

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			class := attr(tok, "class")
			if m := swatchClass.FindStringSubmatch(class); m != nil {
				spans = append(spans, Span{Swatch: strings.ToLower(m[1])})
			}
			if tt == html.StartTagToken && !isVoid(tok.Data) {
				stack = append(stack, openTag{name: tok.Data, class: class})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == string(name) {
					stack = stack[:i]
					break
				}
			}

		case html.TextToken:
			highlight := highlighted(stack)
			for i, part := range strings.Split(string(z.Text()), "*") {
				if i > 0 {
					emphasis = !emphasis
				}
				if part == "" {
					continue
				}
				spans = append(spans, Span{Text: part, Emphasis: emphasis, Highlight: highlight})
			}
		}
	}
}

// PlainText renders text without markup. Swatches become solid squares.
func PlainText(text string) string {
	var b strings.Builder
	for _, s := range Spans(text) {
		if s.Swatch != "" {
			b.WriteString("■")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func highlighted(stack []openTag) bool {
	for _, t := range stack {
		for _, c := range strings.Fields(t.class) {
			if strings.HasPrefix(c, "text-") {
				return true
			}
		}
	}
	return false
}

func isVoid(name string) bool {
	switch name {
	case "br", "hr", "img", "input", "meta", "link", "wbr":
		return true
	}
	return false
}
