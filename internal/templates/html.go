// Package templates holds the page layout and the components shared by the
// plugins. Pages are templ components; each plugin builds its own in
// views.go on top of HTML and Page.
package templates

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates/layouts"
)

// HTML writes the markup of a component. Text and attribute values are
// escaped; Raw is for trusted markup only. The first write error sticks
// and later writes are skipped.
type HTML struct {
	w   io.Writer
	err error
}

// Component adapts a render function to templ.Component.
func Component(fn func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &HTML{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Raw writes s unescaped.
func (h *HTML) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// Text writes s as escaped text.
func (h *HTML) Text(s string) { h.Raw(templ.EscapeString(s)) }

// Int writes n as text.
func (h *HTML) Int(n int) { h.Raw(strconv.Itoa(n)) }

// Attr writes ` name="value"` with value escaped.
func (h *HTML) Attr(name, value string) {
	h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// AttrIf writes the attribute when value is not empty.
func (h *HTML) AttrIf(name, value string) {
	if value != "" {
		h.Attr(name, value)
	}
}

// Flag writes a boolean attribute such as checked when on is set.
func (h *HTML) Flag(name string, on bool) {
	if on {
		h.Raw(" " + name)
	}
}

// URL writes a link attribute. Unsafe schemes are replaced by templ's
// sanitized placeholder.
func (h *HTML) URL(name, url string) {
	h.Attr(name, string(templ.URL(url)))
}

// Render writes a nested component.
func (h *HTML) Render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// CSRF writes the hidden token field every form carries.
func (h *HTML) CSRF(ctx context.Context) {
	h.Raw(`<input type="hidden" name="csrf_token"`)
	h.Attr("value", layouts.GetCSRFToken(ctx))
	h.Raw(">")
}

// Error writes an alert paragraph, or nothing when msg is empty.
func (h *HTML) Error(msg string) {
	if msg == "" {
		return
	}
	h.Raw(`<p class="error" role="alert">`)
	h.Text(msg)
	h.Raw("</p>")
}

// Empty writes the placeholder shown instead of an empty list.
func (h *HTML) Empty(msg string) {
	h.Raw(`<p class="empty">`)
	h.Text(msg)
	h.Raw("</p>")
}

// PostButton writes a form holding a single submit button.
func (h *HTML) PostButton(ctx context.Context, action, label, class string) {
	h.Raw(`<form method="post"`)
	h.URL("action", action)
	h.Raw(">")
	h.CSRF(ctx)
	h.Raw(`<button type="submit"`)
	h.AttrIf("class", class)
	h.Raw(">")
	h.Text(label)
	h.Raw("</button></form>")
}

// Link writes an anchor.
func (h *HTML) Link(href, label, class string) {
	h.Raw("<a")
	h.URL("href", href)
	h.AttrIf("class", class)
	h.Raw(">")
	h.Text(label)
	h.Raw("</a>")
}

// FormatTime formats a backend timestamp in local time, or "" when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02.01.2006 15:04")
}
