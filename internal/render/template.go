package render

import (
	"embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed templates
var defaultTemplates embed.FS

const (
	indexTemplate = "index.html"
	pageTemplate  = "page.html"
)

// Templates holds the index and per-entity page templates plus any static
// files shipped alongside them.
type Templates struct {
	Index  string
	Page   string
	Assets map[string][]byte // file name -> content
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	tpl := Templates{Assets: make(map[string][]byte)}
	entries, _ := defaultTemplates.ReadDir("templates")
	for _, e := range entries {
		data, _ := defaultTemplates.ReadFile("templates/" + e.Name())
		switch e.Name() {
		case indexTemplate:
			tpl.Index = string(data)
		case pageTemplate:
			tpl.Page = string(data)
		default:
			tpl.Assets[e.Name()] = data
		}
	}
	return tpl
}

// LoadTemplates reads index.html and page.html from dir. Other regular files
// in dir are carried as assets. An empty dir selects the built-in templates.
func LoadTemplates(dir string) (Templates, error) {
	if dir == "" {
		return DefaultTemplates(), nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Templates{}, fmt.Errorf("read template dir: %w", err)
	}
	tpl := Templates{Assets: make(map[string][]byte)}
	var haveIndex, havePage bool
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return Templates{}, fmt.Errorf("read template: %w", err)
		}
		switch e.Name() {
		case indexTemplate:
			tpl.Index, haveIndex = string(data), true
		case pageTemplate:
			tpl.Page, havePage = string(data), true
		default:
			tpl.Assets[e.Name()] = data
		}
	}
	if !haveIndex || !havePage {
		return Templates{}, fmt.Errorf("template dir %s must contain %s and %s", dir, indexTemplate, pageTemplate)
	}
	return tpl, nil
}

// fill substitutes placeholders in one pass, so substituted text is never
// scanned for further placeholders.
func fill(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for _, k := range slices.Sorted(maps.Keys(values)) {
		pairs = append(pairs, k, values[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
