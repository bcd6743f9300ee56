package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
)

// lcx theme (CLI + TUI).

const (
	IconHeart   = "❤️"
	IconSun     = "🌅"
	IconDone    = "✅"
	IconMin     = "🟡"
	IconBonus   = "🌟"
	IconSkip    = "❌"
	IconPending = "⬜"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconScroll  = "📜"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// FormatHP renders points as dollars: 1020 is "$10.20", -10 is "-$0.10".
func FormatHP(points int) string {
	sign := ""
	if points < 0 {
		sign = "-"
		points = -points
	}
	return fmt.Sprintf("%s$%d.%02d", sign, points/100, points%100)
}

// FormatDelta is FormatHP with an explicit sign for gains.
func FormatDelta(points int) string {
	if points > 0 {
		return "+" + FormatHP(points)
	}
	return FormatHP(points)
}

// HP colors a total or delta by sign.
func HP(points int, delta bool) string {
	text := FormatHP(points)
	if delta {
		text = FormatDelta(points)
	}
	switch {
	case points > 0:
		return Good.Render(text)
	case points < 0:
		return Bad.Render(text)
	}
	return Muted.Render(text)
}

func TierIcon(t engine.Tier) string {
	switch t {
	case engine.TierNone:
		return IconSkip
	case engine.TierMinimum:
		return IconMin
	case engine.TierFull:
		return IconDone
	case engine.TierBonus:
		return IconBonus
	default:
		return IconPending
	}
}

func TierText(t engine.Tier) string {
	switch t {
	case engine.TierNone:
		return Bad.Render("none")
	case engine.TierMinimum:
		return Warn.Render("minimum")
	case engine.TierFull:
		return Good.Render("full")
	case engine.TierBonus:
		return Gold.Render("bonus")
	default:
		return Muted.Render("unselected")
	}
}

// TierValues lists the tiers a task offers with their points, e.g.
// "none -$0.10 · full +$0.20".
func TierValues(task *engine.Task) string {
	var parts []string
	for _, t := range engine.OfferedTiers(task) {
		parts = append(parts, fmt.Sprintf("%s %s", t, FormatDelta(engine.PointsFor(task, t))))
	}
	return strings.Join(parts, " · ")
}
