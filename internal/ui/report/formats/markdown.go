// # internal/ui/report/formats/markdown.go
package formats

import (
	"fmt"
	"strings"
	"time"

	"rapidscore/internal/core/ports"
	"rapidscore/internal/engine/scoring"
)

type MarkdownReportData struct {
	Summary   scoring.ProjectSummary
	Files     []scoring.FileScore
	Skipped   []ports.SkippedFile
	WaitTimes []WaitTimeBlock
}

type MarkdownReportOptions struct {
	ProjectName         string
	ProjectRoot         string
	Version             string
	GeneratedAt         time.Time
	Verbosity           string
	TableOfContents     bool
	CollapsibleSections bool
	IncludeMermaid      bool
	MermaidDiagram      string
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data MarkdownReportData, opts MarkdownReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}
	verbosity := normalizeReportVerbosity(opts.Verbosity)
	withDiagram := opts.IncludeMermaid && strings.TrimSpace(opts.MermaidDiagram) != ""

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: RAPID Code Quality Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# RAPID Code Quality Report\n\n")
	if opts.TableOfContents {
		b.WriteString("## Table of Contents\n")
		b.WriteString("- [Executive Summary](#executive-summary)\n")
		b.WriteString("- [File Scores](#file-scores)\n")
		b.WriteString("- [Unreachable Procedures](#unreachable-procedures)\n")
		b.WriteString("- [Unused Variables](#unused-variables)\n")
		b.WriteString("- [Naming](#naming)\n")
		b.WriteString("- [WaitTime Calls](#waittime-calls)\n")
		if len(data.Skipped) > 0 {
			b.WriteString("- [Skipped Files](#skipped-files)\n")
		}
		if withDiagram {
			b.WriteString("- [Call Graph](#call-graph)\n")
		}
		b.WriteString("\n")
	}

	s := data.Summary
	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files | %d |\n", s.Files))
	b.WriteString(fmt.Sprintf("| Total Lines | %d |\n", s.TotalLines))
	b.WriteString(fmt.Sprintf("| Total Complexity | %d |\n", s.TotalComplexity))
	b.WriteString(fmt.Sprintf("| Code Score | %.0f/100 (%s) |\n", s.Score, scoring.BandOf(s.Score)))
	b.WriteString(fmt.Sprintf("| Mean File Score | %.1f |\n", s.MeanScore))
	b.WriteString(fmt.Sprintf("| Unique Variables | %d |\n", s.UniqueVariables))
	b.WriteString(fmt.Sprintf("| Unreachable Procedures | %d |\n", s.Unreachable))
	b.WriteString(fmt.Sprintf("| Unused Variables | %d |\n", s.UnusedVars))
	b.WriteString(fmt.Sprintf("| Non-dictionary Words | %d |\n", s.BadWords))
	b.WriteString(fmt.Sprintf("| WaitTime Calls | %d |\n\n", s.WaitTimes))

	m.writeFiles(&b, data.Files, opts.ProjectRoot, opts.CollapsibleSections, verbosity)
	m.writeUnreachable(&b, data.Files, opts.ProjectRoot, opts.CollapsibleSections)
	m.writeUnusedVars(&b, data.Files, opts.ProjectRoot, opts.CollapsibleSections)
	m.writeBadWords(&b, data.Files, opts.ProjectRoot, opts.CollapsibleSections)
	m.writeWaitTimes(&b, data.WaitTimes, opts.ProjectRoot, opts.CollapsibleSections, verbosity)
	m.writeSkipped(&b, data.Skipped, opts.ProjectRoot)

	if withDiagram {
		b.WriteString("## Call Graph\n")
		b.WriteString("```mermaid\n")
		b.WriteString(strings.TrimSpace(opts.MermaidDiagram))
		b.WriteString("\n```\n")
	}

	return b.String(), nil
}

func (m *MarkdownGenerator) writeFiles(b *strings.Builder, files []scoring.FileScore, projectRoot string, collapsible bool, verbosity string) {
	b.WriteString("## File Scores\n")
	if len(files) == 0 {
		b.WriteString("No RAPID files found.\n\n")
		return
	}
	rendered := make([]string, 0, len(files))
	for _, f := range files {
		if verbosity == "summary" {
			rendered = append(rendered, fmt.Sprintf("| `%s` | %.0f |\n", relPath(projectRoot, f.Path), f.Score))
			continue
		}
		rendered = append(rendered, fmt.Sprintf(
			"| `%s` | %d | %d | %d | %d | %.0f%% | %.0f | %.1f | %.0f |\n",
			relPath(projectRoot, f.Path),
			f.TotalLines,
			f.SimpleComplexity,
			f.MaxNesting,
			f.ProcCount,
			f.CommentRatio*100,
			f.NamingScore*100,
			f.TotalPenalty,
			f.Score,
		))
	}
	if verbosity == "summary" {
		m.writeTableWithCollapse(
			b,
			"File score details",
			collapsible,
			len(rendered) > 20,
			[]string{"| File | Score |\n", "| --- | --- |\n"},
			rendered,
		)
		return
	}
	m.writeTableWithCollapse(
		b,
		"File score details",
		collapsible,
		len(rendered) > 20,
		[]string{"| File | Lines | Complexity | Nesting | Procs | Comments | Naming | Penalty | Score |\n", "| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeUnreachable(b *strings.Builder, files []scoring.FileScore, projectRoot string, collapsible bool) {
	b.WriteString("## Unreachable Procedures\n")
	var rendered []string
	for _, f := range files {
		for _, p := range f.Procedures {
			if p.Status != scoring.StatusUnreachable {
				continue
			}
			rendered = append(rendered, fmt.Sprintf("| `%s` | `%s:%d` | %d |\n", p.FQName, relPath(projectRoot, f.Path), p.Line, p.CodeLines))
		}
	}
	if len(rendered) == 0 {
		b.WriteString("No unreachable procedures detected.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Unreachable procedure details",
		collapsible,
		len(rendered) > 15,
		[]string{"| Procedure | Location | Code Lines |\n", "| --- | --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeUnusedVars(b *strings.Builder, files []scoring.FileScore, projectRoot string, collapsible bool) {
	b.WriteString("## Unused Variables\n")
	var rendered []string
	for _, f := range files {
		for _, name := range f.UnusedVars {
			rendered = append(rendered, fmt.Sprintf("| `%s` | `%s` |\n", name, relPath(projectRoot, f.Path)))
		}
	}
	if len(rendered) == 0 {
		b.WriteString("No unused variables detected.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Unused variable details",
		collapsible,
		len(rendered) > 15,
		[]string{"| Variable | File |\n", "| --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeBadWords(b *strings.Builder, files []scoring.FileScore, projectRoot string, collapsible bool) {
	b.WriteString("## Naming\n")
	var rendered []string
	for _, f := range files {
		if len(f.BadWords) == 0 {
			continue
		}
		rendered = append(rendered, fmt.Sprintf("| `%s` | %.0f | %s |\n", relPath(projectRoot, f.Path), f.NamingScore*100, strings.Join(f.BadWords, ", ")))
	}
	if len(rendered) == 0 {
		b.WriteString("Every variable name is made of dictionary words.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Non-dictionary word details",
		collapsible,
		len(rendered) > 15,
		[]string{"| File | Naming Score | Words |\n", "| --- | --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeWaitTimes(b *strings.Builder, blocks []WaitTimeBlock, projectRoot string, collapsible bool, verbosity string) {
	b.WriteString("## WaitTime Calls\n")
	if len(blocks) == 0 {
		b.WriteString("No WaitTime calls found in any analyzed file.\n\n")
		return
	}
	if verbosity != "detailed" {
		rendered := make([]string, 0, len(blocks))
		for _, block := range blocks {
			lines := make([]string, 0, len(block.Calls))
			for _, call := range block.Calls {
				lines = append(lines, fmt.Sprint(call.Line))
			}
			rendered = append(rendered, fmt.Sprintf("| `%s` | %s |\n", relPath(projectRoot, block.Path), strings.Join(lines, ", ")))
		}
		m.writeTableWithCollapse(
			b,
			"WaitTime locations",
			collapsible,
			len(rendered) > 15,
			[]string{"| File | Lines |\n", "| --- | --- |\n"},
			rendered,
		)
		return
	}
	for _, block := range blocks {
		b.WriteString(fmt.Sprintf("### `%s`\n", relPath(projectRoot, block.Path)))
		if block.Error != "" {
			b.WriteString("Could not re-read file: " + block.Error + "\n\n")
			continue
		}
		b.WriteString("```\n")
		writeWaitTimeCalls(b, block.Calls)
		b.WriteString("```\n\n")
	}
}

func (m *MarkdownGenerator) writeSkipped(b *strings.Builder, skipped []ports.SkippedFile, projectRoot string) {
	if len(skipped) == 0 {
		return
	}
	b.WriteString("## Skipped Files\n")
	b.WriteString("| File | Reason |\n")
	b.WriteString("| --- | --- |\n")
	for _, s := range skipped {
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", relPath(projectRoot, s.Path), strings.ReplaceAll(s.Error, "|", "\\|")))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeTableWithCollapse(
	b *strings.Builder,
	summary string,
	collapsible bool,
	collapse bool,
	header []string,
	rows []string,
) {
	if collapsible && collapse {
		b.WriteString("<details>\n")
		b.WriteString("<summary>")
		b.WriteString(summary)
		b.WriteString("</summary>\n\n")
	}
	for _, line := range header {
		b.WriteString(line)
	}
	for _, line := range rows {
		b.WriteString(line)
	}
	b.WriteString("\n")
	if collapsible && collapse {
		b.WriteString("</details>\n\n")
	}
}

func normalizeReportVerbosity(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "summary":
		return "summary"
	case "detailed":
		return "detailed"
	default:
		return "standard"
	}
}
