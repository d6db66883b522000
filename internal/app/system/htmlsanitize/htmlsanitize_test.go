package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/restok/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello, World!", "Hello, World!"},
		{"safe html preserved", "<p><strong>Bold</strong> and <em>italic</em></p>", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"script removed", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "onclick") {
		t.Errorf("onclick attribute survived: %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "javascript:") {
		t.Errorf("javascript: href survived: %q", got)
	}
}

func TestStripTags(t *testing.T) {
	input := `<p>The invite email <script>alert(1)</script>never arrived.</p>`
	got := htmlsanitize.StripTags(input)
	if strings.Contains(got, "<") {
		t.Errorf("markup survived StripTags: %q", got)
	}
	if !strings.Contains(got, "never arrived") {
		t.Errorf("text content lost: %q", got)
	}
}
