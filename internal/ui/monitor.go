// Package ui renders a terminal monitor for a running scan.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"campusscan/internal/scan"
	"campusscan/internal/scanner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)
)

// PageScannedMsg reports one parsed page.
type PageScannedMsg struct {
	URL        string
	PageType   scanner.PageType
	Pagination scanner.PaginationInfo
}

// ScanDoneMsg carries the final result.
type ScanDoneMsg struct {
	Result *scan.Result
}

// ScanErrorMsg carries a fatal scan error.
type ScanErrorMsg struct {
	Err error
}

// Monitor is the bubbletea model for a running scan.
type Monitor struct {
	startURL  string
	spinner   spinner.Model
	startTime time.Time

	pagesByType map[scanner.PageType]int
	totalPages  int
	paginated   int
	recentURLs  []string

	result *scan.Result
	err    error
	done   bool
}

// NewMonitor builds a monitor for the given start URL.
func NewMonitor(startURL string) Monitor {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Monitor{
		startURL:    startURL,
		spinner:     s,
		startTime:   time.Now(),
		pagesByType: make(map[scanner.PageType]int),
	}
}

func (m Monitor) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case PageScannedMsg:
		m.totalPages++
		m.pagesByType[msg.PageType]++
		if msg.Pagination.Detected {
			m.paginated++
		}
		m.recentURLs = append(m.recentURLs, msg.URL)
		if len(m.recentURLs) > 8 {
			m.recentURLs = m.recentURLs[len(m.recentURLs)-8:]
		}
		return m, nil

	case ScanDoneMsg:
		m.result = msg.Result
		m.done = true
		return m, tea.Quit

	case ScanErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Monitor) View() string {
	var b strings.Builder

	header := titleStyle.Render("campusscan") + "  " + urlStyle.Render(m.startURL)
	if !m.done {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(header + "\n\n")

	stats := []struct {
		label string
		value string
	}{
		{"Pages", fmt.Sprintf("%d", m.totalPages)},
		{"Campus pages", fmt.Sprintf("%d", m.pagesByType[scanner.PageTypeCampus])},
		{"Faculty pages", fmt.Sprintf("%d", m.pagesByType[scanner.PageTypeFaculty])},
		{"Course pages", fmt.Sprintf("%d", m.pagesByType[scanner.PageTypeCourse])},
		{"Paginated", fmt.Sprintf("%d", m.paginated)},
		{"Elapsed", time.Since(m.startTime).Round(time.Second).String()},
	}

	var lines []string
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("%s %s",
			labelStyle.Render(fmt.Sprintf("%-14s", s.label)),
			valueStyle.Render(s.value)))
	}
	b.WriteString(panelStyle.Render(strings.Join(lines, "\n")) + "\n")

	if len(m.recentURLs) > 0 {
		var recent []string
		for _, u := range m.recentURLs {
			recent = append(recent, urlStyle.Render(Truncate(u, 70)))
		}
		b.WriteString(panelStyle.Render(strings.Join(recent, "\n")) + "\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render("scan failed: "+m.err.Error()) + "\n")
	case m.result != nil:
		b.WriteString(valueStyle.Render(fmt.Sprintf(
			"done: %d campuses, %d faculties, %d courses",
			len(m.result.Entities.Campuses),
			len(m.result.Entities.Faculties),
			len(m.result.Entities.Courses))) + "\n")
	default:
		b.WriteString(labelStyle.Render("press q to abort") + "\n")
	}
	return b.String()
}

// Truncate keeps the tail of s, prefixed with "...", when it exceeds max
// runes. URLs are truncated from the left so the distinguishing path suffix
// stays visible.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return "..." + string(runes[len(runes)-max+3:])
}
