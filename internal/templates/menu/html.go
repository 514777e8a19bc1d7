package menu

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so component bodies read top to bottom.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr writes ` name="value"`; empty values are skipped.
func (hw *htmlWriter) attr(name, value string) {
	if value == "" {
		return
	}
	hw.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (hw *htmlWriter) url(name, value string) {
	if value == "" {
		return
	}
	hw.attr(name, string(templ.URL(value)))
}

func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

func component(fn func(ctx context.Context, hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		fn(ctx, hw)
		return hw.err
	})
}
