package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderBranding renders "slabwatch" with a blue to teal gradient.
func renderBranding() string {
	colors := []string{
		"#09A2E2", "#0BABD4", "#0DB4C6", "#0FBDB8",
		"#11C6AA", "#13CF9C", "#15D88E", "#17E180", "#19EA72",
	}
	chars := []string{"s", "l", "a", "b", "w", "a", "t", "c", "h"}

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors[i])).
			Bold(true).
			Render(ch))
	}
	return b.String()
}

func (p *BrowsePage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Loading..."
	}
	if width < 40 || height < 12 {
		return "Terminal too small. Resize to at least 40x12."
	}

	header := renderBranding() + "  " + p.styles.Muted.Render("saved card searches")
	searchBar := p.renderSearchBar(width)
	statusLine := p.renderStatusLine(width)

	chromeHeight := lipgloss.Height(header) + lipgloss.Height(searchBar) + lipgloss.Height(statusLine)
	listHeight := height - chromeHeight - 1

	list := p.renderList(width, listHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, searchBar, list, statusLine)
}

func (p *BrowsePage) renderSearchBar(width int) string {
	regionTag := p.styles.Label.Render("region ") + p.styles.Value.Render(p.region())

	if p.searchFormState.active {
		hint := p.styles.FormHint.Render("enter search · tab region · esc cancel")
		return lipgloss.JoinHorizontal(lipgloss.Top,
			p.styles.Title.Render("Search: "),
			p.input.View(),
			"  ", regionTag,
			"  ", hint,
		)
	}

	return p.styles.Muted.Render("press / to search a card") + "  " + regionTag
}

// renderList stacks card renderings, scrolled so the selection stays visible.
func (p *BrowsePage) renderList(width, height int) string {
	if height < 1 {
		height = 1
	}

	if p.loading && len(p.items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			p.styles.Muted.Render("loading saved searches..."))
	}
	if len(p.items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			p.styles.Muted.Render("log in and search for a card to track its prices here"))
	}

	cards := make([]string, len(p.items))
	for i, item := range p.items {
		cards[i] = RenderCard(item, p.styles, width, i == p.selected)
	}

	// Scroll down card by card until the selected one fits on screen.
	start := 0
	for {
		visible := strings.Join(cards[start:], "\n")
		if heightOfPrefix(cards, start, p.selected+1) <= height || start >= p.selected {
			content := clampLines(visible, height)
			return content
		}
		start++
	}
}

// heightOfPrefix measures rendered lines from cards[start] through cards[end-1].
func heightOfPrefix(cards []string, start, end int) int {
	total := 0
	for i := start; i < end && i < len(cards); i++ {
		total += lipgloss.Height(cards[i])
	}
	return total
}

func clampLines(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (p *BrowsePage) renderStatusLine(width int) string {
	left := p.styles.Muted.Render("/ search  r refresh  c confirm  R reload  ctrl+l log out  q quit")

	var right string
	switch {
	case p.loading:
		right = p.styles.Muted.Render("working...")
	case p.message != "" && p.isError:
		right = p.styles.Error.Render(p.message)
	case p.message != "":
		right = p.styles.Success.Render(p.message)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return p.styles.Status.Width(width).Render(right)
	}
	return p.styles.Status.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
