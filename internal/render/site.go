package render

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"golang.org/x/net/html"

	"github.com/dgallion1/flagdoc/internal/doctree"
)

// IndexPath is the path of the generated top page.
const IndexPath = "index.html"

// Options tunes page rendering.
type Options struct {
	SourceLinkPrefix string // Prepended to "name#Lline" source links
}

// Page is one generated output file, relative to the output directory.
type Page struct {
	Path    string
	Content []byte
}

// Site is the complete set of generated pages in a stable order: the index
// page, entity pages in declaration order, then template assets by name.
type Site struct {
	Product string
	Pages   []Page
}

// Page returns the page at path.
func (s *Site) Page(path string) (Page, bool) {
	for _, p := range s.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

// Paths lists every page path in site order.
func (s *Site) Paths() []string {
	out := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		out[i] = p.Path
	}
	return out
}

// Build renders the index page and one page per entity of tree.
func Build(tree *doctree.DocTree, readme string, tpl Templates, md Markdown, opts Options) (*Site, error) {
	apiList := NavList(tree)
	markup := NewMarkup(tree)
	site := &Site{Product: tree.Product}

	readmeHTML, err := md.Convert(readme)
	if err != nil {
		return nil, fmt.Errorf("readme: %w", err)
	}
	index := fill(tpl.Index, map[string]string{
		"[[product]]": html.EscapeString(tree.Product),
		"[[title]]":   "Top",
		"[[type]]":    "",
		"{{apiList}}": apiList,
		"{{readme}}":  readmeHTML + `<hr><div class="classes"><h3>Classes</h3>` + apiList + "</div>",
	})
	site.Pages = append(site.Pages, Page{Path: IndexPath, Content: []byte(index)})

	for _, e := range tree.Entities() {
		info := e.Info()
		description, err := md.Convert(info.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", info.Key, err)
		}
		if cls, ok := e.(*doctree.Class); ok {
			description += classOverview(cls)
		}
		line := strconv.Itoa(info.SourceLine)
		page := fill(tpl.Page, map[string]string{
			"[[product]]":     html.EscapeString(tree.Product),
			"[[title]]":       html.EscapeString(info.Key),
			"[[type]]":        e.Kind().String(),
			"[[sourceName]]":  html.EscapeString(info.SourceName),
			"[[sourceLine]]":  line,
			"[[sourceLink]]":  html.EscapeString(opts.SourceLinkPrefix + info.SourceName + "#L" + line),
			"{{apiList}}":     apiList,
			"{{ebnf}}":        markup.SignatureMarkup(e),
			"{{arguments}}":   markup.ArgumentsMarkup(e),
			"{{description}}": description,
		})
		site.Pages = append(site.Pages, Page{Path: Href(info.Key), Content: []byte(page)})
	}

	for _, name := range slices.Sorted(maps.Keys(tpl.Assets)) {
		site.Pages = append(site.Pages, Page{Path: name, Content: tpl.Assets[name]})
	}
	return site, nil
}
