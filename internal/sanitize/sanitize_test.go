package sanitize

import (
	"strings"
	"testing"
)

func TestHTML_StripsScripts(t *testing.T) {
	got := HTML(`<b>Привет</b><script>alert(1)</script><a href="javascript:x" onclick="y">ссылка</a>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") || strings.Contains(got, "href") {
		t.Errorf("dangerous markup kept: %q", got)
	}
	if !strings.Contains(got, "<b>Привет</b>") {
		t.Errorf("emphasis dropped: %q", got)
	}
	if !strings.Contains(got, "ссылка") {
		t.Errorf("link text dropped: %q", got)
	}
}

func TestHTML_Empty(t *testing.T) {
	if HTML("") != "" {
		t.Error("expected empty output")
	}
}

func TestStory(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  \n ", ""},
		{"single line", "Вы входите в таверну.", "<p>Вы входите в таверну.</p>"},
		{"line break", "Первая\nвторая", "<p>Первая<br>вторая</p>"},
		{"paragraphs", "Один.\r\n\r\nДва.", "<p>Один.</p><p>Два.</p>"},
		{"escapes text", "1 < 2 & <i>да</i>", "<p>1 &lt; 2 &amp; <i>да</i></p>"},
		{"drops block markup", `<div class="x">текст</div>`, "<p>текст</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Story(tt.in); got != tt.want {
				t.Errorf("Story(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
