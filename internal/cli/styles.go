package cli

import "github.com/charmbracelet/lipgloss"

var (
	fg     = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	muted  = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	pass   = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	fail   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	warn   = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	brand  = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	accent = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(brand)
	styleVersion = lipgloss.NewStyle().Foreground(pass)
	styleLabel   = lipgloss.NewStyle().Foreground(muted)
	styleValue   = lipgloss.NewStyle().Foreground(fg)
	styleSuccess = lipgloss.NewStyle().Foreground(pass)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(warn)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(fail)
	styleHint    = lipgloss.NewStyle().Foreground(muted)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(fg)
)

var difficultyColors = map[string]lipgloss.AdaptiveColor{
	"easy":   pass,
	"medium": warn,
	"hard":   fail,
}

// difficultyBadge renders "[easy]" and friends; unknown levels use the accent color.
func difficultyBadge(d string) string {
	if d == "" {
		return ""
	}
	c, ok := difficultyColors[d]
	if !ok {
		c = accent
	}
	return lipgloss.NewStyle().Foreground(c).Render("[" + d + "]")
}
