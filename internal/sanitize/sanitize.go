// Package sanitize cleans text that Saga did not write itself before it is
// rendered as HTML. Story entries come from players and from the language
// model behind the backend; either may contain markup.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	storyPolicy     *bluemonday.Policy
	storyPolicyOnce sync.Once
)

// policy allows inline emphasis only. Block structure is derived from
// blank lines by Story, not taken from the input.
func policy() *bluemonday.Policy {
	storyPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "u", "s", "code", "br")
		storyPolicy = p
	})
	return storyPolicy
}

// HTML strips every element and attribute outside the story policy.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return policy().Sanitize(input)
}

// Story renders a history entry as trusted markup: the text is sanitized,
// blank lines start a new paragraph and single newlines become line breaks.
func Story(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	var b strings.Builder
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			lines[i] = HTML(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
