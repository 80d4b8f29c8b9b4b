// # internal/ui/report/render.go
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/shared/util"
	"rapidscore/internal/shared/version"
	"rapidscore/internal/ui/report/formats"
)

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTSV      = "tsv"
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
	FormatSARIF    = "sarif"

	// DiagramMarker names the marker pair a mermaid output updates in place
	// when it points at an existing markdown file.
	DiagramMarker = "callgraph"
)

var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatTSV, FormatMarkdown, FormatMermaid, FormatSARIF}

// Render produces result in the named format.
func Render(result *ports.AnalysisResult, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return renderText(result)
	case FormatJSON:
		return formats.ExportJSON(result)
	case FormatYAML:
		return formats.ExportYAML(result)
	case FormatTSV:
		return renderTSV(result)
	case FormatMarkdown:
		return renderMarkdown(result)
	case FormatMermaid:
		out, err := renderMermaid(result)
		return []byte(out), err
	case FormatSARIF:
		return formats.GenerateSARIF(result.Root, result.Files)
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func renderText(result *ports.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(formats.SummaryLine(result.Summary))
	buf.WriteString("\n")
	if len(result.Files) > 0 {
		buf.WriteString("\n")
		if err := formats.WriteFileTable(&buf, result.Files, result.Root); err != nil {
			return nil, err
		}
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(&buf, "skipped %s: %s\n", util.RelSlash(result.Root, s.Path), s.Error)
	}
	return buf.Bytes(), nil
}

func renderTSV(result *ports.AnalysisResult) ([]byte, error) {
	gen := formats.NewTSVGenerator(result.Root)
	summary, err := gen.GenerateSummary(result.Summary)
	if err != nil {
		return nil, err
	}
	files, err := gen.GenerateFiles(result.Files)
	if err != nil {
		return nil, err
	}
	return []byte(summary + "\n" + files), nil
}

func renderMermaid(result *ports.AnalysisResult) (string, error) {
	gen := formats.NewMermaidGenerator(result.Registry, result.CallGraph, result.Depths)
	gen.SetStatuses(result.Files)
	return gen.Generate()
}

func renderMarkdown(result *ports.AnalysisResult) ([]byte, error) {
	diagram := ""
	if result.Registry != nil && result.Registry.Len() > 0 {
		d, err := renderMermaid(result)
		if err != nil {
			return nil, err
		}
		diagram = d
	}
	out, err := formats.NewMarkdownGenerator().Generate(
		formats.MarkdownReportData{
			Summary:   result.Summary,
			Files:     result.Files,
			Skipped:   result.Skipped,
			WaitTimes: WaitTimeBlocks(result.Files, WaitTimeRadius),
		},
		formats.MarkdownReportOptions{
			ProjectName:         filepath.Base(result.Root),
			ProjectRoot:         result.Root,
			Version:             version.Version,
			TableOfContents:     true,
			CollapsibleSections: true,
			IncludeMermaid:      diagram != "",
			MermaidDiagram:      diagram,
		},
	)
	return []byte(out), err
}

// WriteOutputs writes every configured output file. A mermaid output that
// names an existing markdown file carrying the callgraph markers is
// updated in place instead of overwritten.
func WriteOutputs(result *ports.AnalysisResult, out config.Output) error {
	targets := []struct {
		path   string
		format string
	}{
		{out.TSV, FormatTSV},
		{out.Markdown, FormatMarkdown},
		{out.JSON, FormatJSON},
		{out.YAML, FormatYAML},
		{out.SARIF, FormatSARIF},
	}
	for _, t := range targets {
		if strings.TrimSpace(t.path) == "" {
			continue
		}
		data, err := Render(result, t.format)
		if err != nil {
			return fmt.Errorf("render %s: %w", t.format, err)
		}
		if err := util.WriteFileWithDirs(t.path, data, 0o644); err != nil {
			return fmt.Errorf("write %s output %q: %w", t.format, t.path, err)
		}
	}

	if strings.TrimSpace(out.Mermaid) == "" {
		return nil
	}
	diagram, err := renderMermaid(result)
	if err != nil {
		return fmt.Errorf("render mermaid: %w", err)
	}
	if isMarkdownWithMarkers(out.Mermaid) {
		return InjectDiagram(out.Mermaid, diagram)
	}
	if err := util.WriteFileWithDirs(out.Mermaid, []byte(diagram), 0o644); err != nil {
		return fmt.Errorf("write mermaid output %q: %w", out.Mermaid, err)
	}
	return nil
}

func isMarkdownWithMarkers(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return HasSection(string(content), DiagramMarker)
}
