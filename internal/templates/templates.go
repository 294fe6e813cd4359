package templates

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed dockerfiles/*.tmpl
var dockerfiles embed.FS

// Template describes one Dockerfile template.
type Template struct {
	// Name is the identifier passed to --template.
	Name  string
	Label string
}

var registry = []Template{
	{Name: "dart", Label: "Dart"},
}

// DefaultVars are applied before caller-supplied variables.
var DefaultVars = map[string]string{
	"NAME": "app",
}

var varValuePattern = regexp.MustCompile(`^[A-Za-z0-9._-]*$`)

// Renderer renders the embedded Dockerfile templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every registered template with the sprig function map.
func NewRenderer() (*Renderer, error) {
	root := template.New("dockerfiles").Funcs(sprig.TxtFuncMap()).Option("missingkey=error")
	for _, t := range registry {
		src, err := dockerfiles.ReadFile("dockerfiles/" + t.Name + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", t.Name, err)
		}
		if _, err := root.New(t.Name).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", t.Name, err)
		}
	}
	return &Renderer{tmpl: root}, nil
}

// List returns the registered templates sorted by name.
func List() []Template {
	out := append([]Template(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered template names sorted.
func Names() []string {
	list := List()
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Name
	}
	return names
}

// Render executes the named template with vars layered over DefaultVars.
// Variable values are restricted to characters that are safe inside a
// Dockerfile ARG and a file path.
func (r *Renderer) Render(name string, vars map[string]string) (string, error) {
	t := r.tmpl.Lookup(name)
	if t == nil || name == r.tmpl.Name() {
		return "", fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	data := make(map[string]string, len(DefaultVars)+len(vars))
	for k, v := range DefaultVars {
		data[k] = v
	}
	for k, v := range vars {
		if !varValuePattern.MatchString(v) {
			return "", fmt.Errorf("invalid value for %s: %q", k, v)
		}
		data[k] = v
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
