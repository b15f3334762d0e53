package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("dont-rust-bro"))
	b.WriteString(hintStyle.Render("  daemon status"))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.renderDaemon()))
	b.WriteString("\n")
	if m.practice != nil {
		b.WriteString(panelStyle.Render(m.renderPractice()))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(renderHelp())
		b.WriteString("\n")
	}

	body := b.String()
	if m.height > 0 {
		pad := m.height - lipgloss.Height(body) - 1
		if pad > 0 {
			body += strings.Repeat("\n", pad)
		}
	}
	return body + "\n" + m.renderStatusBar()
}

func (m Model) renderDaemon() string {
	if !m.connected {
		return warnStyle.Render("Daemon is not running.") + "\n" +
			hintStyle.Render("It starts automatically on the next `drb show`.")
	}

	visible := hiddenStyle.Render("hidden")
	if m.status.IsVisible() {
		visible = visibleStyle.Render("visible")
	}

	rows := [][2]string{
		{"Window", visible},
		{"Agents", valueStyle.Render(fmt.Sprintf("%d", m.status.AgentCount()))},
	}
	if m.info != nil {
		rows = append(rows, [2]string{"PID", valueStyle.Render(fmt.Sprintf("%d", m.info.PID))})
		if !m.info.StartedAt.IsZero() {
			uptime := time.Since(m.info.StartedAt).Truncate(time.Second)
			rows = append(rows, [2]string{"Uptime", valueStyle.Render(uptime.String())})
		}
	}
	return renderRows(rows)
}

func (m Model) renderPractice() string {
	return renderRows([][2]string{
		{"Pack", valueStyle.Render(m.practice.ActivePack)},
		{"Problem", valueStyle.Render(fmt.Sprintf("#%d", m.practice.ProblemIndex+1))},
	})
}

func renderRows(rows [][2]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-8s", r[0])), r[1]))
	}
	return strings.Join(lines, "\n")
}

func renderHelp() string {
	var lines []string
	for _, k := range keys.all() {
		h := k.Help()
		lines = append(lines, fmt.Sprintf("  %s  %s", keyStyle.Render(fmt.Sprintf("%-3s", h.Key)), hintStyle.Render(h.Desc)))
	}
	return strings.Join(lines, "\n")
}

func keyHint(k, desc string) string {
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.err != nil:
		left = " " + errorStyle.Render("Error: "+m.err.Error())
	case m.notice != "":
		left = " " + valueStyle.Render(m.notice)
	default:
		left = " " + keyHint("s", "show") + "  " + keyHint("h", "hide") + "  " +
			keyHint("X", "stop") + "  " + keyHint("?", "help") + "  " + keyHint("q", "quit")
	}

	right := lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("⚠ Disconnected") + " "
	if m.connected {
		right = lipgloss.NewStyle().Foreground(colorGreen).Render("Connected") + " "
	}

	width := m.width
	if width <= 0 {
		width = lipgloss.Width(left) + lipgloss.Width(right) + 1
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
