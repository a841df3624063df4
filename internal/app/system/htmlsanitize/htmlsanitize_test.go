package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Grateful for the warm welcome!"); got != "Grateful for the warm welcome!" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Loved</strong> the <em>service</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(input); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<b onclick="alert('xss')">Click</b>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "onclick") {
		t.Errorf("expected onclick attribute removed, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ruth Okafor", "Ruth Okafor"},
		{"  padded  ", "padded"},
		{"<b>Ruth</b> Okafor", "Ruth Okafor"},
		{"<script>alert(1)</script>Ruth", "Ruth"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
