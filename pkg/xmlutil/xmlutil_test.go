package xmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"Mom's Garden":              "Mom&#39;s Garden",
		`<script>alert(1)</script>`: "&lt;script&gt;alert(1)&lt;/script&gt;",
		"Salt & Pepper":             "Salt &amp; Pepper",
		`say "hi"`:                  "say &#34;hi&#34;",
	}
	for in, want := range cases {
		assert.Equal(t, want, Escape(in), in)
	}
}

func TestEscape_InvalidUTF8(t *testing.T) {
	assert.Equal(t, "a�b", Escape("a\xffb"))
}
