package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 46rem; margin: 2rem auto; line-height: 1.6; padding: 0 1rem; }
pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Markdown converts a report to an HTML fragment.
func Markdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint: gosec
}

// HTML renders a report as a standalone HTML page.
func HTML(title, markdown string) ([]byte, error) {
	body, err := Markdown(markdown)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, map[string]any{"Title": title, "Body": body}); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}
