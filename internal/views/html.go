// Package views renders the site's HTML as templ components.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// page accumulates writes and keeps the first error.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) int(n int64) {
	p.raw(strconv.FormatInt(n, 10))
}

// attr writes name="value" with the value escaped, preceded by a space.
func (p *page) attr(name, value string) {
	p.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes a sanitized href attribute.
func (p *page) href(url string) {
	p.attr("href", string(templ.URL(url)))
}

func (p *page) src(url string) {
	p.attr("src", string(templ.URL(url)))
}

func (p *page) render(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

// link writes an anchor with escaped text.
func (p *page) link(url, label, class string) {
	p.raw("<a")
	p.href(url)
	if class != "" {
		p.attr("class", class)
	}
	p.raw(">")
	p.text(label)
	p.raw("</a>")
}

// component adapts a body writer into a templ.Component.
func component(body func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{ctx: ctx, w: w}
		body(p)
		return p.err
	})
}

// csrfField writes the hidden CSRF input.
func (p *page) csrfField(token string) {
	p.raw(`<input type="hidden" name="csrf_token"`)
	p.attr("value", token)
	p.raw(">")
}

// postButton writes a single-button form that POSTs to action.
func (p *page) postButton(action, token, label, class string) {
	p.raw(`<form method="post" class="inline"`)
	p.attr("action", action)
	p.raw(">")
	p.csrfField(token)
	p.raw(`<button type="submit"`)
	p.attr("class", class)
	p.raw(">")
	p.text(label)
	p.raw("</button></form>")
}
