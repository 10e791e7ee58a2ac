package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Intro content...", "Intro content..."},
		{"empty", "", ""},
		{"keeps formatting", "<p>Hello <strong>world</strong></p>", "<p>Hello <strong>world</strong></p>"},
		{"drops script", `<p>ok</p><script>alert(1)</script>`, "<p>ok</p>"},
		{"drops handlers", `<img src="https://cdn.example/a.png" onerror="alert(1)">`, `<img src="https://cdn.example/a.png">`},
		{"keeps code class", `<pre><code class="language-go">x := 1</code></pre>`, `<pre><code class="language-go">x := 1</code></pre>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Sanitize(tt.in))
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	s := NewSanitizer()
	once := s.Sanitize(`<p onclick="x()">a <a href="https://example.com">link</a></p>`)
	assert.Equal(t, once, s.Sanitize(once))
}
