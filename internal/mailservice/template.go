package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewTemplate parses every embedded template once. The files are compiled in, so a parse failure is a build defect.
func NewTemplate() *Template {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	set := make(map[string]*template.Template, len(names))
	for _, name := range names {
		set[path.Base(name)] = template.Must(template.New(path.Base(name)).ParseFS(templateFS, name))
	}

	return &Template{set: set}
}

// ParseTemplate renders the subject, plainBody and htmlBody blocks of the named template with data.
func (tp *Template) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	t, ok := tp.set[name]
	if !ok {
		return nil, nil, nil, fmt.Errorf("unknown mail template %q", name)
	}

	var parts [3]*bytes.Buffer
	for i, block := range []string{"subject", "plainBody", "htmlBody"} {
		parts[i] = new(bytes.Buffer)
		if err := t.ExecuteTemplate(parts[i], block, data); err != nil {
			return nil, nil, nil, fmt.Errorf("render %s of %s: %w", block, name, err)
		}
	}

	return parts[0], parts[1], parts[2], nil
}
