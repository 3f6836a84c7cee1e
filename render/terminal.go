package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"salescast/workflow"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4B0082"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1F2937"))
	amountStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#059669"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6EE7B7")).Padding(0, 1)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

// barColors follows the dashboard chart order.
var barColors = []lipgloss.Color{"#3B82F6", "#10B981", "#F59E0B", "#EF4444"}

// Prediction renders the prediction screen for a workflow snapshot.
func Prediction(s workflow.State) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sales Prediction"))
	b.WriteString("\n")

	if s.Pending() {
		b.WriteString(hintStyle.Render("Predicting..."))
		b.WriteString("\n")
	}
	if msg := s.Annotation(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}

	if p, ok := s.Current(); ok {
		card := labelStyle.Render("Predicted Sales") + "\n" + amountStyle.Render(p.String())
		b.WriteString(cardStyle.Render(card))
	} else {
		b.WriteString(hintStyle.Render("Enter details to predict sales"))
	}
	b.WriteString("\n")
	return b.String()
}

// Dashboard renders every chart as horizontal bars, or the dashboard's
// message when the statistics are not available.
func Dashboard(d *workflow.Dashboard, width int) string {
	charts, err := d.Charts()
	if err != nil {
		msg := d.Message()
		if msg == "" {
			msg = err.Error()
		}
		return errorStyle.Render("Error: "+msg) + "\n"
	}
	return Charts(charts, width)
}

// Charts renders chart series as horizontal bars scaled to width cells.
func Charts(charts []workflow.Chart, width int) string {
	if width <= 0 {
		width = 40
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sales Analysis Dashboard"))
	b.WriteString("\n")
	for i, c := range charts {
		style := barStyle.Foreground(barColors[i%len(barColors)])
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(c.Title))
		b.WriteString("\n")

		labelWidth := len(c.XTitle)
		peak := 0.0
		for j, l := range c.Labels {
			labelWidth = max(labelWidth, lipgloss.Width(l))
			peak = max(peak, math.Abs(c.Values[j]))
		}
		for j, l := range c.Labels {
			cells := 0
			if peak > 0 {
				// negative amounts get no bar; the value column still shows them
				cells = max(int(c.Values[j]/peak*float64(width)), 0)
			}
			fmt.Fprintf(&b, "%-*s %s %.2f\n", labelWidth, l, style.Render(strings.Repeat("█", cells)), c.Values[j])
		}
		if len(c.Labels) == 0 {
			b.WriteString(hintStyle.Render("no data"))
			b.WriteString("\n")
		}
	}
	return b.String()
}
