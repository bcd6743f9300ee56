package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Giantpizzahead/life-coach-x/internal/catalog"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/tracker"
	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

// adjustStep is the HP changed by a/A ($1.00).
const adjustStep = 100

var tierKeys = map[string]engine.Tier{
	"u": engine.TierUnselected,
	"n": engine.TierNone,
	"m": engine.TierMinimum,
	"f": engine.TierFull,
	"b": engine.TierBonus,
}

type boardModel struct {
	ctx context.Context
	svc *tracker.Service

	width  int
	height int

	status   *tracker.Status
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	status *tracker.Status
	rolled int
	err    error
}

type actionMsg struct {
	log string
	err error
}

type changedMsg struct{}

func newBoardModel(ctx context.Context, svc *tracker.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		_, n, err := m.svc.Rollover(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		st, err := m.svc.Status(m.ctx)
		return loadedMsg{status: st, rolled: n, err: err}
	}
}

func (m boardModel) selectCmd(task *engine.Task, tier engine.Tier) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.Select(m.ctx, task.ID, tier); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("%s %s: %s", ui.TierIcon(tier), task.Name, tier)}
	}
}

func (m boardModel) adjustCmd(delta int) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Adjust(m.ctx, delta)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("Adjusted %s, now %s.", ui.FormatDelta(delta), ui.FormatHP(snap.TotalPoints))}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		if n := len(m.lines()); m.selected >= n {
			m.selected = max(n-1, 0)
		}
		if msg.rolled > 0 {
			m.lastLog = fmt.Sprintf("%s Rolled over %d day(s).", ui.IconSun, msg.rolled)
		} else if m.lastLog == "Refreshing…" {
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		}
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.lastLog = ui.IconWarn + " " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case changedMsg:
		return m, m.loadCmd()
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.lines())-1 {
				m.selected++
			}
			return m, nil
		case "a":
			return m, m.adjustCmd(adjustStep)
		case "A":
			return m, m.adjustCmd(-adjustStep)
		}
		if tier, ok := tierKeys[key]; ok {
			line, ok := m.current()
			if !ok {
				return m, nil
			}
			if !engine.TierOffered(line.Task, tier) {
				m.lastLog = fmt.Sprintf("%s %s has no %s tier.", ui.IconWarn, line.Task.Name, tier)
				return m, nil
			}
			return m, m.selectCmd(line.Task, tier)
		}
	}
	return m, nil
}

// lines flattens the due tasks in display order.
func (m boardModel) lines() []engine.BreakdownLine {
	if m.status == nil {
		return nil
	}
	var out []engine.BreakdownLine
	for _, g := range m.status.Groups {
		out = append(out, g.Lines...)
	}
	return out
}

func (m boardModel) current() (engine.BreakdownLine, bool) {
	lines := m.lines()
	if m.selected < 0 || m.selected >= len(lines) {
		return engine.BreakdownLine{}, false
	}
	return lines[m.selected], true
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		leftW = min(leftW, m.width/2)
		leftW = max(leftW, 18)
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.status == nil {
		return ui.Heading(ui.IconHeart, "lcx: loading…")
	}
	st := m.status
	return fmt.Sprintf("%s | %s | HP %s | today %s | %s",
		ui.Heading(ui.IconHeart, "lcx"),
		m.svc.Profile(),
		ui.HP(st.Snapshot.TotalPoints, false),
		ui.HP(st.Preview, true),
		st.OpenDay,
	)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Today"}
	if m.status != nil {
		done, total := progress(m.lines())
		lines = append(lines, fmt.Sprintf("%s %d/%d", progressBar(done, total, 14), done, total))
		lines = append(lines, "resets "+m.status.NextRollover.Format("Mon 15:04"))
	}
	lines = append(lines,
		"",
		"Keys",
		"- ↑/↓ or j/k: move",
		"- u/n/m/f/b: set tier",
		"- a/A: adjust ±$1.00",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	if m.status == nil || len(m.status.Groups) == 0 {
		return "(nothing due today)"
	}
	var out []string
	i := 0
	for _, g := range m.status.Groups {
		out = append(out, ui.H2.Render(g.Section.Name))
		for _, l := range g.Lines {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
			}
			row := fmt.Sprintf("%s%s %-22s %s", cursor, ui.TierIcon(l.Stored), l.Task.Name, ui.TierText(l.Stored))
			if l.Stale {
				row += " " + ui.Warn.Render("(not offered)")
			}
			out = append(out, row)
			if i == m.selected {
				out = append(out, "     "+ui.Muted.Render(ui.TierValues(l.Task)))
				for _, item := range catalog.Checklist(l.Task.Description) {
					out = append(out, "     - "+item.Text)
				}
			}
			i++
		}
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

// progress counts due tasks that have been addressed with any tier.
func progress(lines []engine.BreakdownLine) (done, total int) {
	for _, l := range lines {
		total++
		if l.Stored != engine.TierUnselected {
			done++
		}
	}
	return done, total
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	value = min(max(value, 0), total)
	filled := min(value*width/total, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
