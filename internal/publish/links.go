package publish

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/flagdoc/internal/render"
)

// BrokenLink is a relative page link whose target was not generated.
type BrokenLink struct {
	Page string
	Href string
}

// CheckLinks parses every HTML page and reports relative links to ".html"
// targets that are not part of pages. External URLs, fragments and links to
// other file types are not checked.
func CheckLinks(pages []render.Page) []BrokenLink {
	known := make(map[string]bool, len(pages))
	for _, p := range pages {
		known[p.Path] = true
	}

	var broken []BrokenLink
	for _, p := range pages {
		if !strings.HasSuffix(p.Path, ".html") {
			continue
		}
		doc, err := html.Parse(bytes.NewReader(p.Content))
		if err != nil {
			continue
		}
		seen := make(map[string]bool)
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode && n.Data == "a" {
				if href, ok := attr(n, "href"); ok && !seen[href] {
					seen[href] = true
					if target, ok := localTarget(p.Path, href); ok && !known[target] {
						broken = append(broken, BrokenLink{Page: p.Path, Href: href})
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(doc)
	}
	return broken
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// localTarget resolves href against the page it appears on. It reports false
// for anything that is not a relative link to an HTML page.
func localTarget(page, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if !strings.HasSuffix(u.Path, ".html") || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return path.Join(path.Dir(page), u.Path), true
}
