package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name         string
	BorderColor  lipgloss.Color
	TextColor    lipgloss.Color
	AccentColor  lipgloss.Color
	BlockColors  []lipgloss.Color
	GarbageColor lipgloss.Color
	CrackedColor lipgloss.Color
}

var themes = []Theme{
	{
		Name:         "Classic Panel",
		BorderColor:  lipgloss.Color("15"),
		TextColor:    lipgloss.Color("250"),
		AccentColor:  lipgloss.Color("226"),
		BlockColors:  []lipgloss.Color{"196", "226", "46", "51", "93"},
		GarbageColor: lipgloss.Color("240"),
		CrackedColor: lipgloss.Color("248"),
	},
	{
		Name:         "Amber Terminal",
		BorderColor:  lipgloss.Color("214"),
		TextColor:    lipgloss.Color("223"),
		AccentColor:  lipgloss.Color("208"),
		BlockColors:  []lipgloss.Color{"220", "214", "172", "208", "215"},
		GarbageColor: lipgloss.Color("94"),
		CrackedColor: lipgloss.Color("179"),
	},
	{
		Name:         "Ocean Neon",
		BorderColor:  lipgloss.Color("33"),
		TextColor:    lipgloss.Color("159"),
		AccentColor:  lipgloss.Color("39"),
		BlockColors:  []lipgloss.Color{"45", "39", "51", "50", "75"},
		GarbageColor: lipgloss.Color("24"),
		CrackedColor: lipgloss.Color("81"),
	},
	{
		Name:         "Mono Matrix",
		BorderColor:  lipgloss.Color("250"),
		TextColor:    lipgloss.Color("245"),
		AccentColor:  lipgloss.Color("82"),
		BlockColors:  []lipgloss.Color{"236", "240", "244", "248", "252"},
		GarbageColor: lipgloss.Color("235"),
		CrackedColor: lipgloss.Color("242"),
	},
}

func themeIndexByName(name string) int {
	for i, theme := range themes {
		if theme.Name == name {
			return i
		}
	}
	return -1
}

func viewMenu(m Model) string {
	theme := themes[m.themeIndex]
	content := renderMenu("TETANUS ATTACK", menuItems, m.menuIndex, "Enter to select, Q to quit", theme)
	return center(m.width, m.height, content)
}

func viewThemes(m Model) string {
	theme := themes[m.themeIndex]
	items := make([]string, 0, len(themes))
	for _, t := range themes {
		items = append(items, t.Name)
	}
	preview := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle(theme).Render("Theme Preview"),
		renderPreviewBlockRow(theme),
	)
	menu := renderMenu("Themes", items, m.themeIndex, "Enter to apply, Esc to back", theme)
	content := lipgloss.JoinVertical(lipgloss.Left, preview, "", menu)
	return center(m.width, m.height, content)
}

func renderPreviewBlockRow(theme Theme) string {
	items := make([]string, 0, len(theme.BlockColors)+2)
	for _, color := range theme.BlockColors {
		cell := lipgloss.NewStyle().Background(color).MarginRight(1).Render(cellText)
		items = append(items, cell)
	}
	items = append(items, lipgloss.NewStyle().Background(theme.GarbageColor).MarginRight(1).Render(cellText))
	items = append(items, lipgloss.NewStyle().Background(theme.CrackedColor).Render(cellText))
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func viewScores(m Model) string {
	theme := themes[m.themeIndex]
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Scores"))
	b.WriteString("\n\n")
	if len(m.scores) == 0 {
		b.WriteString("No scores yet.\n")
	} else {
		start := m.scoresOffset
		end := start + scoresPageSize
		if end > len(m.scores) {
			end = len(m.scores)
		}
		for i, score := range m.scores[start:end] {
			line := fmt.Sprintf("%2d. %-12s %7d  x%-2d  %s", start+i+1, score.Name, score.Score, score.MaxChain, score.When)
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(m.scores) > scoresPageSize {
			b.WriteString("\n")
			b.WriteString(helpStyle(theme).Render("Use Up/Down to scroll"))
			b.WriteString("\n")
		}
	}
	if m.syncWarning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle(theme).Render(m.syncWarning))
		b.WriteString("\n")
	}
	if m.syncLoading {
		b.WriteString("\n")
		b.WriteString(helpStyle(theme).Render(renderSyncLoader(m.syncDots)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("Enter to back"))
	return center(m.width, m.height, b.String())
}

const scoresPageSize = 20

func viewConfig(m Model) string {
	theme := themes[m.themeIndex]
	items := make([]string, 0, len(configItems))
	for i, item := range configItems {
		state := "OFF"
		switch i {
		case 0:
			if m.config.Sound {
				state = "ON"
			}
			items = append(items, fmt.Sprintf("%s: %s", item, state))
		case 1:
			if m.config.Music {
				state = "ON"
			}
			items = append(items, fmt.Sprintf("%s: %s", item, state))
		case 2:
			items = append(items, fmt.Sprintf("%s: %d%%", item, clampVolumePercent(m.config.Volume)))
		case 3:
			if m.config.Animations {
				state = "ON"
			}
			items = append(items, fmt.Sprintf("%s: %s", item, state))
		case 4:
			if m.config.Sync {
				state = "ON"
			}
			items = append(items, fmt.Sprintf("%s: %s", item, state))
		}
	}
	content := renderMenu("Config", items, m.configIndex, "Enter to toggle, Left/Right to adjust, Esc to back", theme)
	return center(m.width, m.height, content)
}

func viewNameEntry(m Model) string {
	theme := themes[m.themeIndex]
	p := m.session.Players[0]
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Game Over"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Score: %d  Max Chain: x%d  Time: %s\n\n", p.Score, p.MaxChain, formatElapsed(p.Elapsed)))
	b.WriteString("Enter your name: ")
	b.WriteString(highlightStyle(theme).Render(m.nameInput))
	b.WriteString("\n\n")
	b.WriteString(helpStyle(theme).Render("Enter to save, Esc to skip"))
	return center(m.width, m.height, b.String())
}

func viewGame(m Model) string {
	theme := themes[m.themeIndex]
	rules := m.session.Rules
	minWidth, minHeight := minGameSize(rules, m.playerCount)
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		message := fmt.Sprintf("Terminal too small. Need at least %dx%d. Current %dx%d.", minWidth, minHeight, m.width, m.height)
		return center(m.width, m.height, message)
	}
	readyLabel := ""
	if m.startCount > 0 {
		if m.startCount > 1 {
			readyLabel = "READY"
		} else {
			readyLabel = "GO"
		}
	}
	panels := make([]string, 0, m.playerCount)
	for i, p := range m.session.Players {
		board := renderBoard(p, theme, m.flashes[i])
		info := renderInfo(m, p, i, theme, readyLabel)
		panels = append(panels, lipgloss.JoinHorizontal(lipgloss.Top, board, info))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	return center(m.width, m.height, content)
}

const cellText = "  "

func renderBoard(p *PlayerState, theme Theme, flash clearFlash) string {
	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	width := p.Grid.Width
	height := p.Grid.Height
	var b strings.Builder
	b.WriteString(border.Render("+" + strings.Repeat("-", width*len(cellText)) + "+"))
	b.WriteString("\n")
	for y := height - 1; y >= 0; y-- {
		b.WriteString(border.Render("|"))
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle()
			if flash.active() && flash.marks[y*width+x] && flash.level > 0.3 {
				style = style.Background(lipgloss.Color("15"))
			} else {
				block := p.Grid.Get(x, y)
				switch block.Kind {
				case BlockNormal:
					color := theme.BlockColors[int(block.Color)%len(theme.BlockColors)]
					style = style.Background(color)
				case BlockGarbage:
					color := theme.GarbageColor
					if block.Cracked {
						color = theme.CrackedColor
					}
					style = style.Background(color)
				}
			}
			// The cursor spans two cells; its brackets share the block's
			// background.
			text := cellText
			if y == p.Cursor.Y {
				switch x {
				case p.Cursor.X:
					text = "[ "
					style = style.Foreground(theme.AccentColor).Bold(true)
				case p.Cursor.X + 1:
					text = " ]"
					style = style.Foreground(theme.AccentColor).Bold(true)
				}
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString(border.Render("|"))
		b.WriteString("\n")
	}
	b.WriteString(border.Render("+" + strings.Repeat("-", width*len(cellText)) + "+"))
	return b.String()
}

func renderInfo(m Model, p *PlayerState, player int, theme Theme, readyLabel string) string {
	var b strings.Builder
	pad := lipgloss.NewStyle().PaddingLeft(2).PaddingRight(2)
	if m.playerCount == 2 {
		b.WriteString(pad.Render(titleStyle(theme).Render(fmt.Sprintf("Player %d", player+1))))
		b.WriteString("\n\n")
	}
	if readyLabel != "" {
		b.WriteString(pad.Render(highlightStyle(theme).Render(readyLabel)))
		b.WriteString("\n\n")
	}
	b.WriteString(pad.Render(fmt.Sprintf("Score: %d", p.Score)))
	b.WriteString("\n")
	b.WriteString(pad.Render(fmt.Sprintf("Time: %s", formatElapsed(p.Elapsed))))
	b.WriteString("\n")
	b.WriteString(pad.Render(fmt.Sprintf("Rise: %.1fs", p.RiseInterval().Seconds())))
	b.WriteString("\n\n")
	if p.Chain.Active && p.Chain.Index > 1 {
		b.WriteString(pad.Render(highlightStyle(theme).Render(fmt.Sprintf("Chain x%d", p.Chain.Index))))
		b.WriteString("\n")
	}
	if p.IncomingGarbage > 0 {
		b.WriteString(pad.Render(warningStyle(theme).Render(fmt.Sprintf("Incoming: %d", p.IncomingGarbage))))
		b.WriteString("\n")
	}
	if p.Chain.Active || p.IncomingGarbage > 0 {
		b.WriteString("\n")
	}
	if m.playerCount == 1 {
		keys := []string{
			"Arrows/HJKL: move",
			"Space: swap",
			"P: pause",
			"R: restart",
			"Q: menu",
		}
		for _, line := range keys {
			b.WriteString(pad.Render(helpStyle(theme).Render(line)))
			b.WriteString("\n")
		}
	} else {
		var keys []string
		if player == 0 {
			keys = []string{"WASD: move", "X: swap"}
		} else {
			keys = []string{"Arrows: move", "Space: swap"}
		}
		for _, line := range keys {
			b.WriteString(pad.Render(helpStyle(theme).Render(line)))
			b.WriteString("\n")
		}
	}
	if m.session.Paused {
		b.WriteString("\n")
		b.WriteString(pad.Render(highlightStyle(theme).Render("Paused")))
	}
	if m.session.Over {
		b.WriteString("\n")
		b.WriteString(pad.Render(highlightStyle(theme).Render(overLabel(m, player))))
		b.WriteString("\n")
		b.WriteString(pad.Render(helpStyle(theme).Render("R for rematch")))
	}
	return b.String()
}

func overLabel(m Model, player int) string {
	if m.playerCount == 1 {
		return "TOP OUT"
	}
	switch m.session.Winner {
	case player:
		return "WINNER"
	case NoWinner:
		return "DRAW"
	default:
		return "TOP OUT"
	}
}

func formatElapsed(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func minGameSize(rules Rules, players int) (int, int) {
	panel := rules.BoardWidth*len(cellText) + 2 + 22
	width := panel * players
	height := rules.BoardHeight + 4
	return width, height
}

func titleStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func highlightStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func helpStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.TextColor)
}

func warningStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
}

func center(width, height int, content string) string {
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderSyncLoader(dots int) string {
	if dots < 0 {
		dots = 0
	}
	if dots > 3 {
		dots = dots % 4
	}
	return "Syncing" + strings.Repeat(".", dots)
}

func clampVolumePercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func renderMenu(title string, items []string, selected int, footer string, theme Theme) string {
	maxWidth := lipgloss.Width(title)
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item)
		if width := lipgloss.Width(item); width > maxWidth {
			maxWidth = width
		}
	}
	if width := lipgloss.Width(footer); width > maxWidth {
		maxWidth = width
	}
	lineStyle := lipgloss.NewStyle().Width(maxWidth).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString(lineStyle.Render(titleStyle(theme).Render(title)))
	b.WriteString("\n\n")
	for i, line := range lines {
		if i == selected {
			b.WriteString(lineStyle.Render(highlightStyle(theme).Render(line)))
			b.WriteString("\n")
			continue
		}
		b.WriteString(lineStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(helpStyle(theme).Render(footer)))
	return b.String()
}
