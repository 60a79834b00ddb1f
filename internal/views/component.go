// Package views renders pages and htmx fragments with gomponents.
package views

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// Component adapts a node tree to templ so handlers can serve it with templ.Handler.
func Component(nodes ...g.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if err := n.Render(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Render writes nodes as an HTML response with status.
func Render(w http.ResponseWriter, r *http.Request, status int, nodes ...g.Node) {
	templ.Handler(Component(nodes...), templ.WithStatus(status)).ServeHTTP(w, r)
}

// ViewURL joins a view-scoped endpoint path.
func ViewURL(viewID string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/views/")
	b.WriteString(viewID)
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}

// refreshTrigger asks htmx to re-fetch an element after d.
func refreshTrigger(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return "load delay:" + strconv.FormatInt(ms, 10) + "ms"
}

func hxVals(pairs ...string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(pairs[i]))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(pairs[i+1]))
	}
	b.WriteByte('}')
	return b.String()
}

func icon(name string) g.Node {
	return g.El("span", g.Attr("class", "icon icon-"+name), g.Attr("data-icon", "lucide:"+name), g.Attr("aria-hidden", "true"))
}

func classes(base string, extra ...string) string {
	out := base
	for _, e := range extra {
		if e != "" {
			out += " " + e
		}
	}
	return out
}
