package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fretnote/fretboard"
	"fretnote/theme"
	"fretnote/trainer"
)

const pickerReach = 2 // values shown above and below the selection

// RenderPicker draws the string and fret columns as short scrolling lists
// with the selection in the middle row
func RenderPicker(p *trainer.Picker, th *theme.Theme) string {
	strCol := pickerColumn("String", p.SelectedString(), 1, fretboard.NumStrings,
		p.Focus() == trainer.ColumnString, th)
	fretCol := pickerColumn("Fret", p.SelectedFret(), 0, fretboard.PickerMaxFret,
		p.Focus() == trainer.ColumnFret, th)
	return lipgloss.JoinHorizontal(lipgloss.Top, strCol, "   ", fretCol)
}

func pickerColumn(title string, sel, lo, hi int, focused bool, th *theme.Theme) string {
	titleStyle := lipgloss.NewStyle().Foreground(th.Muted())
	valueStyle := lipgloss.NewStyle().Foreground(th.Muted())
	selStyle := lipgloss.NewStyle().Foreground(th.FG())
	if focused {
		titleStyle = titleStyle.Foreground(th.Cursor())
		selStyle = selStyle.Foreground(th.Cursor()).Bold(true)
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("%-7s", title))}
	for v := sel - pickerReach; v <= sel+pickerReach; v++ {
		switch {
		case v < lo || v > hi:
			lines = append(lines, strings.Repeat(" ", 7))
		case v == sel:
			lines = append(lines, selStyle.Render(fmt.Sprintf("▸ %-2d ◂ ", v)))
		default:
			lines = append(lines, valueStyle.Render(fmt.Sprintf("  %-2d   ", v)))
		}
	}
	return strings.Join(lines, "\n")
}
