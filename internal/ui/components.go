package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/snapsheet/internal/geometry"
	"github.com/olivier-w/snapsheet/internal/sheet"
)

var (
	backdrop = mustHex(backdropColor)
	dim      = mustHex(dimColor)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// renderPanel draws the panel chrome and content at the given outer width.
func renderPanel(content string, width int) string {
	inner := width - 2 // side borders
	if inner < 6 {
		inner = 6
	}
	handle := lipgloss.PlaceHorizontal(inner-2, lipgloss.Center, handleStyle.Render("━━━━━━"))
	return panelStyle.Width(inner).Render(handle + "\n" + contentStyle.Render(content))
}

// measureContent reports the rendered panel height, so an automatic target
// fits the content exactly.
func measureContent(content string) geometry.Measurer {
	return func(width float64) float64 {
		return float64(lipgloss.Height(renderPanel(content, int(width))))
	}
}

func overlayColor(alpha float64) lipgloss.Color {
	return lipgloss.Color(backdrop.BlendRgb(dim, alpha*maxDim).Clamped().Hex())
}

func renderBackdrop(width, rows int, alpha float64) []string {
	if rows <= 0 || width <= 0 {
		return nil
	}
	line := lipgloss.NewStyle().Background(overlayColor(alpha)).Render(strings.Repeat(" ", width))
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return lines
}

func renderStatus(c *sheet.Controller) string {
	return fmt.Sprintf("%-10s target %d/%d  offset %5.1f  dim %3d%%",
		c.Phase(), c.TargetIndex()+1, c.Layout().Len(), c.Offset(), int(c.Alpha()*100))
}
