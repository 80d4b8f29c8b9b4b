// # internal/ui/report/markdown.go
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func sectionMarkers(name string) (start, end string) {
	return fmt.Sprintf("<!-- rapidscore:%s:start -->", name), fmt.Sprintf("<!-- rapidscore:%s:end -->", name)
}

// HasSection reports whether content carries the start marker of section name.
func HasSection(content, name string) bool {
	start, _ := sectionMarkers(strings.TrimSpace(name))
	return strings.Contains(content, start)
}

// InjectDiagram replaces the callgraph section of the markdown file at path
// with diagram inside a mermaid fence. The file is swapped in through a temp
// file in the same directory so a failed write leaves the original intact.
func InjectDiagram(path, diagram string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read markdown file %q: %w", path, err)
	}

	fenced := "```mermaid\n" + strings.TrimRight(diagram, "\r\n") + "\n```"
	next, err := ReplaceSection(string(content), DiagramMarker, fenced)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return replaceFile(path, next)
}

func replaceFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rapidscore-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", path, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("update %q: %w", path, err)
	}
	return nil
}

// ReplaceSection swaps whatever sits between the start and end markers of
// section name for body. Both markers must appear exactly once, in order.
// The line ending style of content is kept.
func ReplaceSection(content, name, body string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("section name must not be empty")
	}
	start, end := sectionMarkers(name)
	if strings.Count(content, start) != 1 || strings.Count(content, end) != 1 {
		return "", fmt.Errorf("section %q needs exactly one start and one end marker", name)
	}
	startIdx := strings.Index(content, start) + len(start)
	endIdx := strings.Index(content, end)
	if endIdx < startIdx {
		return "", fmt.Errorf("section %q ends before it starts", name)
	}

	nl := "\n"
	if strings.Contains(content, "\r\n") {
		nl = "\r\n"
		body = strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", nl)
	}
	return content[:startIdx] + nl + strings.TrimRight(body, "\r\n") + nl + content[endIdx:], nil
}
