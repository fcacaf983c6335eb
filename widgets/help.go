package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/constraints"
)

// RenderPad renders a single colored pad
func RenderPad(color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render("■")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color lipgloss.Color, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func maxOf[T constraints.Ordered](a T, rest ...T) T {
	for _, v := range rest {
		if v > a {
			a = v
		}
	}
	return a
}

func minOf[T constraints.Ordered](a T, rest ...T) T {
	for _, v := range rest {
		if v < a {
			a = v
		}
	}
	return a
}
