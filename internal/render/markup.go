package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/flagdoc/internal/doctree"
)

// Href maps an entity key to its page path. Instance method separators are
// rewritten to prototype notation: "a.B#c" becomes "a.B.prototype.c.html".
func Href(key string) string {
	return strings.Replace(key, "#", ".prototype.", 1) + ".html"
}

// Label is an entity's short display name: its key without the owning class
// prefix and a leading dot. Instance methods keep their "#". Constructors keep
// only the trailing segment.
func Label(e doctree.Entity) string {
	key := e.Info().Key
	sig, ok := doctree.SignatureOf(e)
	if !ok || sig.ClassKey == "" {
		return key
	}
	label := strings.Replace(key, sig.ClassKey, "", 1)
	if e.Kind() == doctree.KindConstructor {
		label = trailingSegment(label, key)
	}
	return strings.TrimPrefix(label, ".")
}

// trailingSegment returns the last ".name" of label. Allocation forms such as
// "new a.B" leave no dot once the class key is removed, so the segment is
// taken from the key instead.
func trailingSegment(label, key string) string {
	if i := strings.LastIndex(label, "."); i >= 0 && i < len(label)-1 {
		return label[i:]
	}
	name := strings.TrimPrefix(key, "new ")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return name
}

// Markup renders per-entity signature and argument markup. Type names that
// match a known entity key become links to that entity's page.
type Markup struct {
	tree *doctree.DocTree
}

func NewMarkup(tree *doctree.DocTree) Markup {
	return Markup{tree: tree}
}

func (m Markup) link(name string) string {
	if m.tree.Has(name) {
		return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(Href(name)), html.EscapeString(name))
	}
	return html.EscapeString(name)
}

func navItem(e doctree.Entity) string {
	key := html.EscapeString(e.Info().Key)
	kind := e.Kind().String()
	return fmt.Sprintf(`<li class="type-%s"><a href="%s" title="%s (%s)">%s</a>`,
		kind, html.EscapeString(Href(e.Info().Key)), key, kind, html.EscapeString(Label(e)))
}

// NavList renders the nested navigation list: top-level entities with the
// children of each class one level below.
func NavList(tree *doctree.DocTree) string {
	var sb strings.Builder
	sb.WriteString(`<ul class="api-list">`)
	for _, e := range tree.Root {
		sb.WriteString(navItem(e))
		if cls, ok := e.(*doctree.Class); ok {
			sb.WriteString("<ul>")
			for _, child := range cls.Children {
				sb.WriteString(navItem(child))
				sb.WriteString("</li>")
			}
			sb.WriteString("</ul>")
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func entityList(entities []doctree.Entity) string {
	var sb strings.Builder
	sb.WriteString(`<ul class="api-list">`)
	for _, e := range entities {
		sb.WriteString(navItem(e))
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// SignatureMarkup renders a call signature. Optional arguments form one
// contiguous run wrapped in a single bracket pair:
//
//	key(a, b[, c = 1]) → Type | Other
func (m Markup) SignatureMarkup(e doctree.Entity) string {
	sig, ok := doctree.SignatureOf(e)
	if !ok {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<span class="key">%s</span>(<span class="arguments">`, html.EscapeString(e.Info().Key))

	opened := false
	for i, arg := range sig.Arguments {
		if !arg.IsRequired && !opened {
			sb.WriteString("[")
			opened = true
		}
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(html.EscapeString(arg.Name))
		if arg.DefaultValue != "" {
			sb.WriteString(" = " + html.EscapeString(arg.DefaultValue))
		}
	}
	if opened {
		sb.WriteString("]")
	}
	sb.WriteString("</span>)")

	if len(sig.Returns) > 0 {
		sb.WriteString(` &rarr; <span class="return">`)
		for i, ret := range sig.Returns {
			if i != 0 {
				sb.WriteString(" | ")
			}
			fmt.Fprintf(&sb, `<span class="object-%s">%s</span>`, html.EscapeString(ret), m.link(ret))
		}
		sb.WriteString("</span>")
	}

	if ctor, ok := e.(*doctree.Constructor); ok {
		for _, alias := range ctor.Aliases {
			if alias == ctor.Key {
				continue
			}
			fmt.Fprintf(&sb, "\n<span class=\"alias\">%s</span>", html.EscapeString(alias))
		}
	}
	return sb.String()
}

// ArgumentsMarkup renders one list item per argument with its types and
// description. Unknown types render as "?".
func (m Markup) ArgumentsMarkup(e doctree.Entity) string {
	sig, ok := doctree.SignatureOf(e)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, arg := range sig.Arguments {
		types := "?"
		if len(arg.Types) > 0 {
			parts := make([]string, len(arg.Types))
			for i, t := range arg.Types {
				parts[i] = fmt.Sprintf(`<code class="object-%s">%s</code>`, html.EscapeString(t), m.link(t))
			}
			types = strings.Join(parts, "|")
		}
		fmt.Fprintf(&sb, `<li><code class="argument-name">%s</code> (%s) – %s</li>`,
			html.EscapeString(arg.Name), types, arg.Description)
	}
	return sb.String()
}

// classOverview renders the member sections appended to a class page.
func classOverview(cls *doctree.Class) string {
	var sb strings.Builder
	sb.WriteString("<hr>")
	if ctor := cls.Constructor(); ctor != nil {
		sb.WriteString(`<div class="constructor"><h3>Constructor</h3>`)
		sb.WriteString(entityList([]doctree.Entity{ctor}))
		sb.WriteString(`<div style="clear:both;"></div></div>`)
	}
	if methods := cls.ChildrenOf(doctree.KindInstanceMethod); len(methods) > 0 {
		sb.WriteString(`<div class="instance-methods"><h3>Instance methods</h3>`)
		sb.WriteString(entityList(methods))
		sb.WriteString(`<div style="clear:both;"></div></div>`)
	}
	if methods := cls.ChildrenOf(doctree.KindClassMethod); len(methods) > 0 {
		sb.WriteString(`<div class="class-methods"><h3>Class methods</h3>`)
		sb.WriteString(entityList(methods))
		sb.WriteString("</div>")
	}
	return sb.String()
}
