package formats

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// procedureLabel is the mermaid node text of a procedure.
func procedureLabel(name string, depth int, reachable bool) string {
	if !reachable {
		return name + "\\n(unreachable)"
	}
	return fmt.Sprintf("%s\\n(d=%d)", name, depth)
}

func sanitizeID(name string) string {
	if name == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	first := []rune(out)[0]
	if unicode.IsDigit(first) {
		return "m_" + out
	}
	return out
}

func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func relPath(root, path string) string {
	root = strings.TrimSpace(root)
	path = strings.TrimSpace(path)
	if root == "" || path == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// wrapList breaks items into lines of at most perLine entries. The first
// line starts with prefix, the rest are indented to line up with it.
func wrapList(items []string, prefix string, perLine int) []string {
	if len(items) == 0 {
		return nil
	}
	if perLine < 1 {
		perLine = 1
	}
	indent := strings.Repeat(" ", len(prefix))
	var lines []string
	for i := 0; i < len(items); i += perLine {
		chunk := strings.Join(items[i:min(i+perLine, len(items))], ", ")
		if i == 0 {
			lines = append(lines, prefix+chunk)
		} else {
			lines = append(lines, indent+chunk)
		}
	}
	return lines
}
