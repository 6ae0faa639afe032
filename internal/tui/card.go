package tui

import (
	"fmt"
	"strings"

	"github.com/slabwatch/slabwatch/internal/model"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// RenderCard renders one saved search as a bordered card. It is a pure
// function of its inputs so the same saved result always draws the same
// card regardless of surrounding state.
func RenderCard(res model.SavedResult, st Styles, width int, selected bool) string {
	frame := st.Card
	if selected {
		frame = st.CardSel
	}

	innerWidth := width - 4
	if innerWidth < 24 {
		innerWidth = 24
	}

	title := st.Title.Render(res.CardName)
	regionTag := st.Muted.Render(" [" + res.Region + "]")
	header := title + regionTag
	if res.Expired {
		header += st.Error.Render("  (stale)")
	}

	image := res.LastImage
	if image == "" {
		image = model.FallbackImagePath
	}

	updated := res.LastUpdated
	if updated == "" {
		updated = "N/A"
	}
	confirmed := "No"
	confirmedStyle := st.Muted
	if res.Confirmed {
		confirmed = "Yes"
		confirmedStyle = st.Success
	}

	meta := lipgloss.JoinVertical(lipgloss.Left,
		st.Label.Render("Image:     ")+st.Value.Render(truncate(image, innerWidth-11)),
		st.Label.Render("Updated:   ")+st.Value.Render(updated),
		st.Label.Render("Confirmed: ")+confirmedStyle.Render(confirmed),
	)

	chart := renderAvgChart(res.LastResult, st, innerWidth)

	hints := st.FormHint.Render("r refresh  c confirm image")

	body := lipgloss.JoinVertical(lipgloss.Left, header, meta, chart, hints)
	return frame.Width(width - 2).Render(body)
}

// renderAvgChart draws grade averages as a bar chart, one bar per grade
// in the order the server reported them. The scale always starts at zero.
func renderAvgChart(report *model.PriceReport, st Styles, width int) string {
	if report == nil || len(report.Avg) == 0 {
		return st.Muted.Render("no price data yet")
	}

	chartHeight := 6
	chartWidth := width
	if chartWidth < 20 {
		chartWidth = 20
	}

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(3),
	)

	for _, entry := range report.Avg {
		bc.Push(barchart.BarData{
			Label: entry.Grade,
			Values: []barchart.BarValue{
				{Name: "Avg (local)", Value: entry.Value, Style: st.Bar},
			},
		})
	}
	bc.Draw()

	var legend []string
	for _, entry := range report.Avg {
		legend = append(legend, fmt.Sprintf("%s %.2f", entry.Grade, entry.Value))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		st.Label.Render("Avg (local)  ")+st.Muted.Render(strings.Join(legend, "  ")),
		bc.View(),
	)
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
