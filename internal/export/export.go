// Package export converts a stored report into shareable documents.
package export

import (
	"fmt"
	"os"
	"strings"
)

// Format is an export target.
type Format string

const (
	FormatDocx     Format = "docx"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatDocx, FormatHTML, FormatMarkdown:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want docx, html or md)", s)
}

// Write renders markdown in the given format to path.
func Write(format Format, title, markdown, path string) error {
	switch format {
	case FormatDocx:
		return Docx(title, markdown, path)
	case FormatHTML:
		page, err := HTML(title, markdown)
		if err != nil {
			return err
		}
		return os.WriteFile(path, page, 0o644)
	case FormatMarkdown:
		return os.WriteFile(path, []byte(markdown), 0o644)
	}
	return fmt.Errorf("unknown export format %q", format)
}
