// # internal/ui/cli/ui.go
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/engine/scoring"
	"rapidscore/internal/shared/util"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	poorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func bandStyle(score float64) lipgloss.Style {
	switch scoring.BandOf(score) {
	case scoring.BandGood:
		return goodStyle
	case scoring.BandWarning:
		return warningStyle
	default:
		return poorStyle
	}
}

type item struct {
	title, desc string
	index       int
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelFiles panelMode = iota
	panelTree
	panelWaitTimes
)

type model struct {
	ctx     context.Context
	service ports.AnalysisService
	root    string
	watch   bool
	sink    resultSink

	fileList list.Model
	detail   viewport.Model
	mode     panelMode

	result      *ports.AnalysisResult
	err         error
	running     bool
	lastUpdate  time.Time
	showDetails bool

	trendReport *history.TrendReport
	showTrend   bool

	sourceJumpStatus string
}

type resultMsg struct {
	result *ports.AnalysisResult
	err    error
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func (m model) Init() tea.Cmd {
	if m.watch || m.service == nil {
		return nil
	}
	return analyzeCmd(m.ctx, m.service, m.root, m.sink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.fileList.SetSize(width, height)
		m.detail.Width = width
		m.detail.Height = height
	case resultMsg:
		m.running = false
		m.lastUpdate = time.Now()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.fileList.SetItems(fileItems(msg.result))
		m = refreshDetail(m)
	case sourceJumpResultMsg:
		if msg.err != nil {
			m.sourceJumpStatus = statusStyle.Render(fmt.Sprintf("Source jump failed: %v", msg.err))
		} else {
			m.sourceJumpStatus = statusStyle.Render(fmt.Sprintf("Opened source: %s", msg.target))
		}
	}

	var cmd tea.Cmd
	if m.mode == panelFiles && !m.showDetails {
		m.fileList, cmd = m.fileList.Update(msg)
	} else {
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("RAPID Code Score"), renderStatus(m), renderSummary(m))
	help := renderHelp(m)

	var body string
	switch {
	case m.err != nil:
		body = poorStyle.Render(fmt.Sprintf("Analysis failed: %v", m.err))
	case m.result == nil:
		body = statusStyle.Render("Analyzing " + m.root + " ...")
	case m.mode == panelFiles && !m.showDetails:
		body = m.fileList.View()
	default:
		body = m.detail.View()
	}
	if m.showTrend {
		body += "\n\n" + renderTrendOverlay(m.trendReport)
	}
	if m.sourceJumpStatus != "" {
		body += "\n\n" + m.sourceJumpStatus
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func fileItems(res *ports.AnalysisResult) []list.Item {
	items := make([]list.Item, 0, len(res.Files))
	for i, f := range res.Files {
		items = append(items, item{
			index: i,
			title: fmt.Sprintf("%s  %s", bandStyle(f.Score).Render(fmt.Sprintf("%5.1f", f.Score)), util.RelSlash(res.Root, f.Path)),
			desc: fmt.Sprintf(
				"lines=%d complexity=%d naming=%.2f unreachable=%d unused=%d",
				f.TotalLines,
				f.SimpleComplexity+f.DepthComplexity,
				f.NamingScore,
				len(f.Unreachable),
				len(f.UnusedVars),
			),
		})
	}
	return items
}

func initialModel(ctx context.Context, service ports.AnalysisService, root string, trendReport *history.TrendReport, watch bool, sink resultSink) model {
	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Files (" + filepath.Base(root) + ")"
	fileList.SetShowStatusBar(false)
	fileList.SetFilteringEnabled(true)

	return model{
		ctx:         ctx,
		service:     service,
		root:        root,
		watch:       watch,
		sink:        sink,
		fileList:    fileList,
		detail:      viewport.New(0, 0),
		mode:        panelFiles,
		running:     service != nil,
		trendReport: trendReport,
		lastUpdate:  time.Now(),
	}
}
