package theme

import (
	"github.com/charmbracelet/lipgloss"

	"fretnote/trainer"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Staff
	NoteHead  rune // ● note
	Sharp     rune // ♯ accidental
	StaffLine rune // ─ line
	Ledger    rune // ═ ledger line
	Stem      rune // │ note stem

	// Fretboard grid
	String   rune // ─ empty cell
	FretWire rune // │ between frets
	Nut      rune // ║ after open strings
	Inlay    rune // • marker fret, empty cell
	Cursor   rune // ◉ cursor
	Solid    rune // ■ key help active
	Empty    rune // □ key help inactive
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			NoteHead:  '●',
			Sharp:     '♯',
			StaffLine: '─',
			Ledger:    '═',
			Stem:      '│',

			String:   '─',
			FretWire: '│',
			Nut:      '║',
			Inlay:    '•',
			Cursor:   '◉',
			Solid:    '■',
			Empty:    '□',
		},
	}
}

// Color roles mapped to palette entries
const (
	RoleBG = iota
	RoleSurface
	RoleFretWire
	RoleMuted
	RolePending
	RoleFG
	RoleCursor
	RoleCurrent
	RoleWrong
	RoleDone
)

func (t *Theme) role(i int) lipgloss.Color {
	return lipgloss.Color(t.Palette.Index(i).Hex())
}

func (t *Theme) FretWire() lipgloss.Color { return t.role(RoleFretWire) }
func (t *Theme) Muted() lipgloss.Color    { return t.role(RoleMuted) }
func (t *Theme) FG() lipgloss.Color       { return t.role(RoleFG) }
func (t *Theme) Cursor() lipgloss.Color   { return t.role(RoleCursor) }
func (t *Theme) Current() lipgloss.Color  { return t.role(RoleCurrent) }
func (t *Theme) Wrong() lipgloss.Color    { return t.role(RoleWrong) }
func (t *Theme) Done() lipgloss.Color     { return t.role(RoleDone) }

// Status maps a note's progress to its colour. Current notes use the
// foreground so they read on a dark terminal where the staff's black would vanish.
func (t *Theme) Status(s trainer.Status) lipgloss.Color {
	switch s {
	case trainer.StatusDone:
		return t.Done()
	case trainer.StatusCurrent:
		return t.Current()
	default:
		return t.role(RolePending)
	}
}
