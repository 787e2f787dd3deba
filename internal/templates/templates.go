package templates

import (
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

//go:embed layouts/*.tmpl
var layoutFS embed.FS

// DefaultName is the layout used when a requested name is unknown.
const DefaultName = "modern"

// Renderer holds the parsed layout variants. Construct once with New and
// share; Render is safe for concurrent use.
type Renderer struct {
	layouts map[string]*template.Template
}

// New parses every embedded layout. A parse failure in any layout is a
// packaging bug and is returned as a TemplateError.
func New() (*Renderer, error) {
	entries, err := layoutFS.ReadDir("layouts")
	if err != nil {
		return nil, &TemplateError{Message: "failed to read embedded layouts", Cause: err}
	}

	funcs := template.FuncMap{
		"join": strings.Join,
	}

	r := &Renderer{layouts: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(entry.Name()).Funcs(funcs).ParseFS(layoutFS, "layouts/"+entry.Name())
		if err != nil {
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to parse layout %s", name),
				Cause:   err,
			}
		}
		r.layouts[name] = tmpl
	}

	if _, ok := r.layouts[DefaultName]; !ok {
		return nil, &TemplateError{Message: "default layout missing from embedded set"}
	}
	return r, nil
}

// Names returns the available layout names, sorted.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a layout with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.layouts[name]
	return ok
}

// Render executes the named layout against the document. An unknown or
// empty name falls back to the default layout rather than failing, so a
// record saved with a retired layout name still renders.
func (r *Renderer) Render(name string, doc *types.ResumeDocument) (string, error) {
	tmpl, ok := r.layouts[name]
	if !ok {
		tmpl = r.layouts[DefaultName]
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, doc); err != nil {
		return "", &RenderError{
			Message: fmt.Sprintf("failed to execute layout %s", name),
			Cause:   err,
		}
	}
	return sb.String(), nil
}
