package exporter

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes markup from s: tags and comments are dropped, script and
// style elements are dropped with their contents, and the result is trimmed.
// Entities are left as written. Passes repeat until nothing changes, so
// StripTags(StripTags(s)) == StripTags(s) even for input like "<<b>b>".
func StripTags(s string) string {
	for {
		out := stripOnce(s)
		if out == s {
			return out
		}
		s = out
	}
}

func stripOnce(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			if isRawContentTag(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawContentTag(z) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawContentTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
