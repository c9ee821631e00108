package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"paragraphs", "<p>Hello</p><p>world</p>", "Helloworld"},
		{"inline", "We <strong>shipped</strong> <em>it</em>.", "We shipped it."},
		{"attributes", `<a href="https://x.test" title="a > b">link</a>`, "link"},
		{"script dropped", "a<script>alert('<b>')</script>b", "ab"},
		{"style dropped", "<style>p { color: red }</style>text", "text"},
		{"comment", "before<!-- wp:paragraph -->after", "beforeafter"},
		{"entities kept", "1 &lt; 2 &amp;&amp; 3 &gt; 2", "1 &lt; 2 &amp;&amp; 3 &gt; 2"},
		{"bare angle", "a < b", "a < b"},
		{"trimmed", "  <div>\n  text \n</div>  ", "text"},
		{"nested construction", "<<b>b>bold", "bold"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}

func TestStripTagsIsIdempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>world</b></p>",
		"<<b>b>x<</i>i>",
		"<scr<script>x</script>ipt>alert(1)</script>",
		"text with &lt;tag&gt; entities",
		"<!DOCTYPE html><html><body>doc</body></html>",
		"<p>unterminated <b",
	}
	for _, in := range inputs {
		once := StripTags(in)
		assert.Equal(t, once, StripTags(once), "input %q", in)
		assertNoTags(t, once)
	}
}

func assertNoTags(t *testing.T, s string) {
	t.Helper()
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		assert.Equal(t, html.TextToken, tt, "markup left in %q", s)
	}
}
